package archiver

import (
	"strconv"

	"github.com/rs/zerolog"
)

// assembleZipCompress builds the 7-Zip argument vector for a compress.
// List files are created through lists before any switch is emitted.
func assembleZipCompress(log *zerolog.Logger, plan compressPlan, opts ZipOptions, lists *ListFileManager) ([]string, error) {
	update, err := opts.UpdateMode.normalize()
	if err != nil {
		return nil, err
	}
	recursion, err := opts.Recursion.normalize()
	if err != nil {
		return nil, err
	}
	level, err := opts.Level.resolve(Zip)
	if err != nil {
		return nil, err
	}

	excludes := cleanPatterns(opts.Excludes)
	var excludeList string
	if len(excludes) > 0 && needsExcludeList(excludes) {
		if excludeList, err = lists.Create("exclude", excludes); err != nil {
			return nil, err
		}
	}
	var sourceList string
	if !isInlineSource(plan.sources) {
		if sourceList, err = lists.Create("src", plan.sources); err != nil {
			return nil, err
		}
	}

	b := newArgBuilder(log, plan.verbose)
	if update == UpdateMirror {
		b.add("a: Add files to archive", "a")
	} else {
		b.add("u: Update files in archive", "u")
	}
	b.add("-tzip: Set ZIP type of archive", "-tzip")
	if opts.SharedFiles {
		b.add("-ssw: Compress files open for writing", "-ssw")
	}
	if lists.Used() {
		b.add("-scs: Set charset for list files", "-scs"+lists.Encoding().zipCharset)
	}
	b.add("-r: Set recursion", "-r"+recursion.switchSuffix())
	if update == UpdateSync {
		b.add("-uq0: Remove entries whose files are gone", "-uq0")
	}
	b.add("-mx: Set compression level", "-mx"+strconv.Itoa(level))
	if plan.password != "" {
		b.addShown("-p: Set password and AES-256 encryption", "-p**** -mem=AES256", "-p"+plan.password, "-mem=AES256")
	}
	if plan.workDir != "" {
		b.add("-w: Assign working directory", "-w"+plan.workDir)
	}

	modifier := "r" + recursion.switchSuffix()
	switch {
	case excludeList != "":
		b.add("-x@: Exclude files listed in file", "-x"+modifier+"@"+excludeList)
	case len(excludes) > 0:
		for _, p := range excludes {
			b.add("-x!: Exclude files", "-x"+modifier+"!"+p)
		}
	}

	b.add("archive path", plan.dest)
	if sourceList != "" {
		b.add("source list", "@"+sourceList)
	} else {
		b.add("source path", plan.sources[0])
	}
	return b.result(), nil
}

func assembleZipExtract(log *zerolog.Logger, archive, dir, password string, verbose bool) []string {
	b := newArgBuilder(log, verbose)
	b.add("x: Extract files with full paths", "x")
	if password != "" {
		b.addShown("-p: Set password", "-p****", "-p"+password)
	}
	b.add("archive path", archive)
	b.add("-o: Set output directory", "-o"+dir)
	b.add("-y: Assume Yes on all queries", "-y")
	return b.result()
}

func assembleZipTest(log *zerolog.Logger, archive, password string, verbose bool) []string {
	b := newArgBuilder(log, verbose)
	b.add("t: Test integrity of archive", "t")
	if password != "" {
		b.addShown("-p: Set password", "-p****", "-p"+password)
	}
	b.add("archive path", archive)
	b.add("-y: Assume Yes on all queries", "-y")
	return b.result()
}
