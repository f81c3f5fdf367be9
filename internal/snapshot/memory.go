package snapshot

import (
	"sync"
)

// MemoryStore implements Store using in-memory maps (not persistent)
type MemoryStore struct {
	mu    sync.RWMutex
	metas map[string]Meta
	data  map[string][]byte
}

// NewMemoryStore creates a new in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		metas: make(map[string]Meta),
		data:  make(map[string][]byte),
	}
}

// Put stores a snapshot, replacing any snapshot with the same ID
func (m *MemoryStore) Put(meta Meta, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy value to prevent external modifications
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	m.metas[meta.ID] = cloneMeta(meta)
	m.data[meta.ID] = dataCopy

	return nil
}

// Meta returns the metadata of a snapshot
func (m *MemoryStore) Meta(id string) (Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meta, exists := m.metas[id]
	if !exists {
		return Meta{}, ErrNotFound
	}

	return cloneMeta(meta), nil
}

// Data returns the IPC payload of a snapshot
func (m *MemoryStore) Data(id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.data[id]
	if !exists {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external modifications
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	return dataCopy, nil
}

// List returns all snapshots, oldest first
func (m *MemoryStore) List() ([]Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metas := make([]Meta, 0, len(m.metas))
	for _, meta := range m.metas {
		metas = append(metas, cloneMeta(meta))
	}
	sortMetas(metas)

	return metas, nil
}

// Delete removes a snapshot
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.metas[id]; !exists {
		return ErrNotFound
	}
	delete(m.metas, id)
	delete(m.data, id)

	return nil
}

// Close is a no-op for the memory store
func (m *MemoryStore) Close() error {
	return nil
}

func cloneMeta(meta Meta) Meta {
	meta.Columns = append([]string(nil), meta.Columns...)
	meta.Types = append([]string(nil), meta.Types...)
	return meta
}
