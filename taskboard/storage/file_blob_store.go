package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

// Constants for file locking
const (
	lockFileName   = ".taskboard.lock"
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// FileBlobStore keeps each key in <dir>/<key>.json. Writes go to a temp file
// that is renamed into place, and every access holds a cross-process lock on
// <dir>/.taskboard.lock.
type FileBlobStore struct {
	dir         string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock

	// serializes access from this process; the file lock is not reentrant
	mu sync.Mutex
}

// FileBlobStoreOption configures a FileBlobStore
type FileBlobStoreOption func(*FileBlobStore)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) FileBlobStoreOption {
	return func(s *FileBlobStore) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) FileBlobStoreOption {
	return func(s *FileBlobStore) {
		s.lockFactory = factory
	}
}

// NewFileBlobStore opens (creating if needed) a blob directory
func NewFileBlobStore(dir string, opts ...FileBlobStoreOption) (*FileBlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}

	s := &FileBlobStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = NewOSFileSystem()
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}

	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s.fileLock = s.lockFactory.New(filepath.Join(dir, lockFileName))
	return s, nil
}

// Dir returns the blob directory
func (s *FileBlobStore) Dir() string {
	return s.dir
}

// Path returns the file holding key
func (s *FileBlobStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements BlobStore.Get
func (s *FileBlobStore) Get(key string) ([]byte, bool, error) {
	if !validKey(key) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	var (
		data  []byte
		found bool
	)
	err := s.withLock(func() error {
		path := s.Path(key)
		if _, err := s.fs.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		content, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, found = content, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// Put implements BlobStore.Put
func (s *FileBlobStore) Put(key string, data []byte) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return s.withLock(func() error {
		path := s.Path(key)

		// Write to file atomically (write to temp file, then rename)
		tmpFile := path + ".tmp"
		if err := s.fs.WriteFile(tmpFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}
		if err := s.fs.Rename(tmpFile, path); err != nil {
			_ = s.fs.Remove(tmpFile)
			return fmt.Errorf("failed to rename file: %w", err)
		}
		return nil
	})
}

// withLock runs fn while holding both the process and the file lock
func (s *FileBlobStore) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// acquireLock attempts to acquire an exclusive file lock with retry logic
func (s *FileBlobStore) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}
