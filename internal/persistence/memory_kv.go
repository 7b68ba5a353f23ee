package persistence

import (
	"qrkeep/internal/persistence/interfaces"
	"sync"
)

type MemoryKV struct {
	mu       sync.Mutex
	data     map[string]string
	maxBytes int
}

func NewMemoryKV(maxBytes int) *MemoryKV {
	return &MemoryKV{data: make(map[string]string), maxBytes: maxBytes}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(key, value string) error {
	return m.SetMany(map[string]string{key: value})
}

func (m *MemoryKV) SetMany(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exceedsQuota(m.maxBytes, m.data, values) {
		return interfaces.ErrQuotaExceeded
	}
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// exceedsQuota reports whether data with updates applied is larger than maxBytes.
// maxBytes <= 0 disables the check.
func exceedsQuota(maxBytes int, data, updates map[string]string) bool {
	if maxBytes <= 0 {
		return false
	}
	used := 0
	for k, v := range updates {
		used += len(k) + len(v)
	}
	for k, v := range data {
		if _, replaced := updates[k]; replaced {
			continue
		}
		used += len(k) + len(v)
	}
	return used > maxBytes
}
