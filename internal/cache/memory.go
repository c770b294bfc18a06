package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type item struct {
	value      []byte
	expiration int64
}

// Memory es un caché en proceso con expiración y limpieza periódica
type Memory struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

func NewMemory(defaultTTL time.Duration) *Memory {
	m := &Memory{
		items: make(map[string]item),
		ttl:   defaultTTL,
		done:  make(chan struct{}),
	}
	go m.cleanupExpired()
	return m
}

func (m *Memory) Get(_ context.Context, key string, target interface{}) (bool, error) {
	m.mu.RLock()
	it, found := m.items[key]
	m.mu.RUnlock()

	if !found || time.Now().UnixNano() > it.expiration {
		return false, nil
	}
	if err := json.Unmarshal(it.value, target); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = item{value: data, expiration: time.Now().Add(ttl).UnixNano()}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (m *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Close detiene la limpieza periódica
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// Size retorna el número de items en caché, expirados incluidos
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.purge(time.Now())
		}
	}
}

func (m *Memory) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, it := range m.items {
		if now.UnixNano() > it.expiration {
			delete(m.items, key)
		}
	}
}
