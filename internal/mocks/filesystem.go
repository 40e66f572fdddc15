// Package mocks provides mock implementations for testing.
package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcdonaldj/arcwrap/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
type MockFileSystem struct {
	// Files maps paths to file contents
	Files map[string][]byte
	// Stats maps paths to FileInfo for Stat
	Stats map[string]os.FileInfo
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error
	// Cwd is joined onto relative paths by Abs
	Cwd string
	// Removed records every path passed to Remove, in order
	Removed []string

	tempSeq int
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Stats:  make(map[string]os.FileInfo),
		Errors: make(map[string]error),
		Cwd:    string(filepath.Separator) + "work",
	}
}

// AddDir marks path as an existing directory.
func (m *MockFileSystem) AddDir(path string) {
	m.Stats[path] = &mockFileInfo{name: filepath.Base(path), isDir: true}
}

// AddFile marks path as an existing file with the given content.
func (m *MockFileSystem) AddFile(path string, content []byte) {
	m.Files[path] = content
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	// Check if we have file content (implies file exists)
	if content, ok := m.Files[name]; ok {
		return &mockFileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.AddDir(path)
	return nil
}

// WriteFile writes data to the named file, creating it if necessary.
func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err, ok := m.Errors[name]; ok {
		return err
	}
	m.Files[name] = data
	return nil
}

// CreateTemp stores data under a new unique name in dir.
// The "*" in pattern is replaced by a sequence number.
func (m *MockFileSystem) CreateTemp(dir, pattern string, data []byte) (string, error) {
	if err, ok := m.Errors[dir]; ok {
		return "", err
	}
	m.tempSeq++
	seq := fmt.Sprintf("%04d", m.tempSeq)
	var base string
	if strings.Contains(pattern, "*") {
		base = strings.Replace(pattern, "*", seq, 1)
	} else {
		base = pattern + seq
	}
	name := filepath.Join(dir, base)
	m.Files[name] = data
	return name, nil
}

// Remove removes the named file or empty directory.
func (m *MockFileSystem) Remove(name string) error {
	m.Removed = append(m.Removed, name)
	if err, ok := m.Errors[name]; ok {
		return err
	}
	_, isFile := m.Files[name]
	_, isStat := m.Stats[name]
	if !isFile && !isStat {
		return os.ErrNotExist
	}
	delete(m.Files, name)
	delete(m.Stats, name)
	return nil
}

// RemoveAll removes path and any children it contains.
func (m *MockFileSystem) RemoveAll(path string) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	// Remove all entries with this prefix
	for k := range m.Files {
		if strings.HasPrefix(k, path) {
			delete(m.Files, k)
		}
	}
	for k := range m.Stats {
		if strings.HasPrefix(k, path) {
			delete(m.Stats, k)
		}
	}
	return nil
}

// Abs joins relative paths onto Cwd.
func (m *MockFileSystem) Abs(path string) (string, error) {
	if err, ok := m.Errors[path]; ok {
		return "", err
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(m.Cwd, path), nil
}

// mockFileInfo implements os.FileInfo for testing.
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
