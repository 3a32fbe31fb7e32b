package cache

import (
	"errors"
	"sync"
)

var ErrKeyNotFound = errors.New("cache key not found")

// Store - кэш без срока жизни: записи живут до явной инвалидации
type Store interface {
	Get(key string) (any, error)
	Set(key string, val any) error
	Delete(key string) error
	Flush() error
}

// MemoryStore - потокобезопасная map в памяти процесса
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]any)}
}

func (m *MemoryStore) Get(key string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return val, nil
}

func (m *MemoryStore) Set(key string, val any) error {
	m.mu.Lock()
	m.data[key] = val
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Flush() error {
	m.mu.Lock()
	m.data = make(map[string]any)
	m.mu.Unlock()
	return nil
}

// Len - количество записей, используется в тестах и логах
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

var _ Store = (*MemoryStore)(nil)
