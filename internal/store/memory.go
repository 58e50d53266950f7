package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryKV is a process-local key-value store. Nothing survives a restart.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

type memEntry struct {
	value     []byte
	updatedAt time.Time
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, e.value...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memEntry{value: append([]byte{}, value...), updatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) List(_ context.Context, prefix string) ([]KVEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []KVEntry
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) {
			out = append(out, KVEntry{Key: k, Size: len(e.value), UpdatedAt: e.updatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
