package storage

import (
	"io/fs"

	"github.com/spf13/afero"
)

// FileSystem defines the file operations the file blob store needs.
// This abstraction allows for in-memory file systems in tests and
// fault injection.
type FileSystem interface {
	// Stat returns file info for the given path
	Stat(name string) (fs.FileInfo, error)

	// ReadFile reads the entire file and returns its contents
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to a file with the specified permissions
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Rename renames (moves) a file from oldpath to newpath
	Rename(oldpath, newpath string) error

	// Remove removes the named file
	Remove(name string) error

	// MkdirAll creates a directory and any missing parents
	MkdirAll(path string, perm fs.FileMode) error
}

// AferoFileSystem adapts an afero.Fs to FileSystem
type AferoFileSystem struct {
	fs afero.Fs
}

// NewAferoFileSystem wraps fs
func NewAferoFileSystem(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fs}
}

// NewOSFileSystem returns a FileSystem backed by the operating system
func NewOSFileSystem() *AferoFileSystem {
	return NewAferoFileSystem(afero.NewOsFs())
}

// NewMemFileSystem returns a FileSystem held entirely in memory
func NewMemFileSystem() *AferoFileSystem {
	return NewAferoFileSystem(afero.NewMemMapFs())
}

// Stat implements FileSystem.Stat
func (a *AferoFileSystem) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

// ReadFile implements FileSystem.ReadFile
func (a *AferoFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

// WriteFile implements FileSystem.WriteFile
func (a *AferoFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

// Rename implements FileSystem.Rename
func (a *AferoFileSystem) Rename(oldpath, newpath string) error {
	return a.fs.Rename(oldpath, newpath)
}

// Remove implements FileSystem.Remove
func (a *AferoFileSystem) Remove(name string) error {
	return a.fs.Remove(name)
}

// MkdirAll implements FileSystem.MkdirAll
func (a *AferoFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}
