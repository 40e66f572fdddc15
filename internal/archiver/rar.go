package archiver

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// assembleRarCompress builds the RAR argument vector for a compress.
// Every boolean option emits its switch explicitly so the result does not
// depend on the installed RAR version's defaults.
func assembleRarCompress(log *zerolog.Logger, plan compressPlan, opts RarOptions, lists *ListFileManager) ([]string, error) {
	update, err := opts.UpdateMode.normalize()
	if err != nil {
		return nil, err
	}
	recursion, err := opts.Recursion.normalize()
	if err != nil {
		return nil, err
	}
	level, err := opts.Level.resolve(Rar)
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
	b.add("a: Add files to archive", "a")
	if update != UpdateMirror {
		b.add("-u: Update files in archive", "-u")
		if update == UpdateSync {
			b.add("-as: Synchronize archive contents", "-as")
		}
		if opts.SkipExisting {
			b.add("-o-: Skip existing files", "-o-")
		} else {
			b.add("-o+: Overwrite existing files", "-o+")
		}
	}
	if opts.SharedFiles {
		b.add("-dh: Open shared files", "-dh")
	}
	if opts.NTFSStreams {
		b.add("-os: Save NTFS streams", "-os")
	}
	if opts.SecurityInfo {
		b.add("-ow: Save file owner and group", "-ow")
	}
	b.add("-r: Set recursion", "-r"+recursion.switchSuffix())
	if opts.Solid {
		b.add("-s: Create solid archive", "-s")
	} else {
		b.add("-s-: Disable solid archiving", "-s-")
	}
	if opts.AssumeYes {
		b.add("-y: Assume Yes on all queries", "-y")
	}
	if !opts.EmptyDirs {
		b.add("-ed: Do not add empty directories", "-ed")
	}
	if opts.CPUPriority >= 1 && opts.CPUPriority <= 15 {
		b.add("-ri: Set process priority", "-ri"+strconv.Itoa(opts.CPUPriority))
	}
	switch rr := opts.RecoveryPercent; {
	case rr == 0:
	case rr >= 1 && rr <= 100:
		b.add("-rr: Add recovery record", "-rr"+strconv.Itoa(rr)+"p")
	default:
		b.add("-rr: Add recovery record", "-rr3p")
	}
	if opts.FullPaths {
		b.add("-ep2: Expand paths to full", "-ep2")
	} else {
		b.add("-ep1: Exclude base directory from names", "-ep1")
	}
	if opts.StderrMessages {
		b.add("-ierr: Send all messages to stderr", "-ierr")
	}
	b.add("-m: Set compression level", "-m"+strconv.Itoa(level))
	switch {
	case opts.FormatVersion == 4:
		b.add("-ma4: Use RAR4 archive format", "-ma4")
	case opts.FormatVersion >= 5:
		b.add("-ma5: Use RAR5 archive format", "-ma5")
		if opts.SymlinksAsLinks {
			b.add("-ol: Store symbolic links as links", "-ol")
		}
	}
	if lists.Used() {
		enc := lists.Encoding()
		if enc.rarCharset == "" {
			return nil, configErrorf("list file encoding", "RAR cannot read list files in %s", enc.Name)
		}
		b.add("-sc: Set charset for list files", "-sc"+enc.rarCharset+"l")
	}
	if plan.workDir != "" {
		b.add("-w: Assign work directory", "-w"+plan.workDir)
	}
	if plan.password != "" {
		b.addShown("-hp: Encrypt file data and headers", "-hp****", "-hp"+plan.password)
	}
	switch {
	case excludeList != "":
		b.add("-x@: Exclude files listed in file", "-x@"+excludeList)
	case len(excludes) > 0:
		for _, p := range excludes {
			b.add("-x: Exclude files", "-x"+p)
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

func assembleRarExtract(log *zerolog.Logger, archive, dir, password string, verbose bool) []string {
	b := newArgBuilder(log, verbose)
	b.add("x: Extract files with full paths", "x")
	b.add("-y: Assume Yes on all queries", "-y")
	if password != "" {
		b.addShown("-p: Set password", "-p****", "-p"+password)
	}
	b.add("archive path", archive)
	// RAR treats a destination without a trailing separator as a file mask.
	b.add("destination directory", strings.TrimRight(dir, `/\`)+string(os.PathSeparator))
	return b.result()
}

func assembleRarTest(log *zerolog.Logger, archive, password string, verbose bool) []string {
	b := newArgBuilder(log, verbose)
	b.add("t: Test archive files", "t")
	if password != "" {
		b.addShown("-p: Set password", "-p****", "-p"+password)
	}
	b.add("archive path", archive)
	return b.result()
}
