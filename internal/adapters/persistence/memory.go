package persistence

import (
	"context"
	"sync"
)

// MemoryStore keeps the blob in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	blob []byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Name implements BlobStore.
func (m *MemoryStore) Name() string { return BackendMemory }

// Load implements BlobStore.
func (m *MemoryStore) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.blob == nil {
		return nil, ErrAbsent
	}
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out, nil
}

// Save implements BlobStore.
func (m *MemoryStore) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = make([]byte, len(blob))
	copy(m.blob, blob)
	return nil
}

// Delete implements BlobStore.
func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
	return nil
}

// Close implements BlobStore.
func (m *MemoryStore) Close() error { return nil }
