package archiver

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mcdonaldj/arcwrap/internal/ports"
	"gitlab.com/tozd/go/errors"
)

var wildcardFiller = strings.NewReplacer("*", "xxx", "?", "x")

// ResolveDestination computes the archive path for a compress operation.
// sources must already be absolute. The date code is not applied here.
//
// Without a hint the name is derived from the first source. A hint naming an
// existing directory receives the derived file name. Any other hint is used
// literally, with ext appended when the hint has no extension.
func ResolveDestination(fsys ports.FileSystem, ext string, sources []string, hint string) (string, error) {
	if len(sources) == 0 {
		return "", configErrorf("sources", "no source paths given")
	}
	inferred := inferArchiveName(fsys, ext, sources[0])

	hint = strings.TrimSpace(hint)
	if hint == "" {
		return inferred, nil
	}
	abs, err := fsys.Abs(hint)
	if err != nil {
		return "", errors.Errorf("resolving destination %s: %w", hint, err)
	}
	if ports.IsDir(fsys, abs) {
		return filepath.Join(abs, filepath.Base(inferred)), nil
	}
	if filepath.Ext(abs) == "" {
		return abs + ext, nil
	}
	return abs, nil
}

func inferArchiveName(fsys ports.FileSystem, ext, first string) string {
	if ports.IsDir(fsys, first) {
		return trimSeparators(first) + ext
	}
	if !strings.ContainsAny(first, "*?") {
		return first + ext
	}

	base, pattern := doublestar.SplitPattern(filepath.ToSlash(first))
	if onlyWildcardSegments(pattern) {
		return trimSeparators(filepath.FromSlash(base)) + ext
	}
	return wildcardFiller.Replace(first) + ext
}

// onlyWildcardSegments reports whether every segment of pattern is made of
// wildcards and dots, as in "*", "*.*" or "**/*".
func onlyWildcardSegments(pattern string) bool {
	if pattern == "" {
		return false
	}
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" || strings.Trim(seg, "*?.") != "" {
			return false
		}
	}
	return true
}

func trimSeparators(p string) string {
	trimmed := strings.TrimRight(p, `/\`)
	if trimmed == "" || strings.HasSuffix(trimmed, ":") {
		return p
	}
	return trimmed
}

// ResolveExtractDir returns the directory an archive is extracted into.
// archive and dir must be absolute; an empty dir means the archive's directory.
func ResolveExtractDir(archive, dir string, makesArchiveNameDir bool) string {
	if dir == "" {
		dir = filepath.Dir(archive)
	}
	if makesArchiveNameDir {
		name := filepath.Base(archive)
		dir = filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return dir
}
