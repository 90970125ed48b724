// internal/blob/memory.go
package blob

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a mutex-guarded in-memory store. It exists so the session
// store and HTTP layer can be exercised without touching disk or network,
// and so the backend-parity suite has a second implementation to run
// against.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, key string, data []byte, _ string) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[key] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *Memory) GetBytes(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, ErrNotFound)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// GetLocalPath materializes the object into a scratch file, mirroring what
// the remote backend does.
func (m *Memory) GetLocalPath(ctx context.Context, key string) (string, error) {
	data, err := m.GetBytes(ctx, key)
	if err != nil {
		return "", err
	}
	return writeScratch(key, data)
}
