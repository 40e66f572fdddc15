package archiver

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mcdonaldj/arcwrap/internal/ports"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ListEncoding is a text encoding for list files together with the charset
// switches that tell each backend how to read them.
type ListEncoding struct {
	Name string
	enc  encoding.Encoding
	// zipCharset is the -scs value, rarCharset the -sc<c>l letter.
	zipCharset string
	rarCharset string
}

// UTF8 is the default list-file encoding.
var UTF8 = ListEncoding{Name: "UTF-8", enc: unicode.UTF8, zipCharset: "UTF-8", rarCharset: "f"}

// LookupEncoding finds an encoding by IANA or WHATWG name, e.g. "utf-8",
// "utf-16le", "windows-1252" or "ibm437". An empty name means UTF-8.
func LookupEncoding(name string) (ListEncoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(name)
		if err != nil || enc == nil {
			return ListEncoding{}, configErrorf("list file encoding", "unknown encoding %q", name)
		}
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical, err = htmlindex.Name(enc)
		if err != nil {
			canonical = name
		}
	}

	le := ListEncoding{Name: canonical, enc: enc}
	switch lower := strings.ToLower(canonical); {
	case lower == "utf-8":
		le.zipCharset, le.rarCharset = "UTF-8", "f"
	case lower == "utf-16le":
		le.zipCharset, le.rarCharset = "UTF-16LE", "u"
	case lower == "utf-16be":
		le.zipCharset = "UTF-16BE"
	case strings.HasPrefix(lower, "utf-"):
		return ListEncoding{}, configErrorf("list file encoding", "%s has no fixed byte order", canonical)
	case strings.HasPrefix(lower, "ibm"), strings.HasPrefix(lower, "cp8"):
		le.zipCharset, le.rarCharset = "DOS", "o"
	default:
		le.zipCharset, le.rarCharset = "WIN", "a"
	}
	return le, nil
}

func (e ListEncoding) encode(s string) ([]byte, error) {
	if e.enc == nil {
		return []byte(s), nil
	}
	b, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding list file as %s: %w", e.Name, err)
	}
	return b, nil
}

// ListFileOptions configures a ListFileManager.
type ListFileOptions struct {
	// Dir receives the list files; empty means the OS temp directory.
	Dir      string
	Encoding ListEncoding
	// DryRun names files after their content and writes them only when retained.
	DryRun bool
	Retain bool
}

// ListFileManager owns the temporary list files of a single request.
// It is not safe for concurrent use.
type ListFileManager struct {
	fs       ports.FileSystem
	opts     ListFileOptions
	newline  string
	names    []string
	created  []string
	released map[string]bool
}

// NewListFileManager creates a manager writing through fsys.
func NewListFileManager(fsys ports.FileSystem, opts ListFileOptions) *ListFileManager {
	if opts.Dir == "" {
		opts.Dir = os.TempDir()
	}
	if opts.Encoding.enc == nil {
		opts.Encoding = UTF8
	}
	return &ListFileManager{
		fs:       fsys,
		opts:     opts,
		newline:  lineTerminator(),
		released: make(map[string]bool),
	}
}

func lineTerminator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Create writes paths, one per line, to a new list file and returns its path.
// kind ends up in the file name, e.g. "src" or "exclude".
func (m *ListFileManager) Create(kind string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.Errorf("%w: empty %s list", ErrInvalidArgument, kind)
	}
	for i, p := range paths {
		if strings.TrimSpace(p) == "" {
			return "", errors.Errorf("%w: blank entry %d in %s list", ErrInvalidArgument, i, kind)
		}
	}

	data, err := m.opts.Encoding.encode(strings.Join(paths, m.newline))
	if err != nil {
		return "", err
	}

	if m.opts.DryRun {
		sum := sha256.Sum256(data)
		name := filepath.Join(m.opts.Dir, fmt.Sprintf("arcwrap-%s-%x.txt", kind, sum[:6]))
		if m.opts.Retain {
			if err := m.fs.WriteFile(name, data, 0o600); err != nil {
				return "", errors.Errorf("writing %s list: %w", kind, err)
			}
		}
		m.names = append(m.names, name)
		return name, nil
	}

	name, err := m.fs.CreateTemp(m.opts.Dir, "arcwrap-"+kind+"-*.txt", data)
	if err != nil {
		return "", errors.Errorf("creating %s list: %w", kind, err)
	}
	m.names = append(m.names, name)
	m.created = append(m.created, name)
	return name, nil
}

// Release deletes a list file created by this manager. Releasing the same
// file twice, or a file the manager does not own, does nothing.
func (m *ListFileManager) Release(path string) error {
	if m.released[path] || !m.owns(path) {
		return nil
	}
	m.released[path] = true
	if err := m.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("removing list file %s: %w", path, err)
	}
	return nil
}

func (m *ListFileManager) owns(path string) bool {
	for _, c := range m.created {
		if c == path {
			return true
		}
	}
	return false
}

// ReleaseAll deletes every list file not yet released, unless Retain was called.
func (m *ListFileManager) ReleaseAll() error {
	if m.opts.Retain {
		return nil
	}
	var errs []error
	for _, path := range m.created {
		if err := m.Release(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Retain keeps all list files on disk.
func (m *ListFileManager) Retain() { m.opts.Retain = true }

// Paths returns every list file referenced so far, in creation order.
func (m *ListFileManager) Paths() []string {
	return append([]string(nil), m.names...)
}

// Encoding returns the encoding list files are written in.
func (m *ListFileManager) Encoding() ListEncoding { return m.opts.Encoding }

// Used reports whether any list file has been referenced.
func (m *ListFileManager) Used() bool { return len(m.names) > 0 }
