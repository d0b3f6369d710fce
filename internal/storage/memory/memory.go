// Package memory provides an in-process implementation of storage.Store
// backed by a map. Nothing survives a restart.
package memory

import (
	"sort"
	"sync"
)

// Memory is safe for concurrent use. Each call is atomic on its own;
// sequences of calls are not.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty store.
func New() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value under key; ok is false when the key is absent.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

// Set writes value under key, replacing any earlier value.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Keys returns every key in ascending order.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
