package storage

import (
	"io/fs"
	"sync"
)

// FaultyFileSystem wraps a FileSystem and fails selected operations.
// Set an error field to make that operation fail; nil passes through.
type FaultyFileSystem struct {
	FileSystem

	mu             sync.Mutex
	ReadFileError  error
	WriteFileError error
	RenameError    error
}

// NewFaultyFileSystem wraps inner, defaulting to an in-memory file system
func NewFaultyFileSystem(inner FileSystem) *FaultyFileSystem {
	if inner == nil {
		inner = NewMemFileSystem()
	}
	return &FaultyFileSystem{FileSystem: inner}
}

// ReadFile implements FileSystem.ReadFile
func (f *FaultyFileSystem) ReadFile(name string) ([]byte, error) {
	if err := f.fault(&f.ReadFileError); err != nil {
		return nil, err
	}
	return f.FileSystem.ReadFile(name)
}

// WriteFile implements FileSystem.WriteFile
func (f *FaultyFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.fault(&f.WriteFileError); err != nil {
		return err
	}
	return f.FileSystem.WriteFile(name, data, perm)
}

// Rename implements FileSystem.Rename
func (f *FaultyFileSystem) Rename(oldpath, newpath string) error {
	if err := f.fault(&f.RenameError); err != nil {
		return err
	}
	return f.FileSystem.Rename(oldpath, newpath)
}

// FileExists reports whether name exists in the wrapped file system
func (f *FaultyFileSystem) FileExists(name string) bool {
	_, err := f.FileSystem.Stat(name)
	return err == nil
}

func (f *FaultyFileSystem) fault(field *error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *field
}
