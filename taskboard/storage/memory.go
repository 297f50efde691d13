package storage

import (
	"fmt"
	"sync"
)

// MemoryBlobStore keeps blobs in a map. PutError, when set, makes every Put
// fail without storing anything.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	PutError error
	puts     map[string]int
}

// NewMemoryBlobStore creates an empty in-memory blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
		puts:  make(map[string]int),
	}
}

// Get implements BlobStore.Get
func (m *MemoryBlobStore) Get(key string) ([]byte, bool, error) {
	if !validKey(key) {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

// Put implements BlobStore.Put
func (m *MemoryBlobStore) Put(key string, data []byte) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[key]++
	if m.PutError != nil {
		return m.PutError
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[key] = cp
	return nil
}

// SetPutError sets or clears the injected write error
func (m *MemoryBlobStore) SetPutError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutError = err
}

// Puts returns how many writes were attempted for key
func (m *MemoryBlobStore) Puts(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts[key]
}
