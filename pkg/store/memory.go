package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory and forgets them after a TTL
type Memory struct {
	values *cache.Cache
}

// NewMemory creates a memory store whose entries expire after ttl
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		values: cache.New(ttl, 2*ttl),
	}
}

// Get returns the value stored under key
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	value, found := m.values.Get(key)
	if !found {
		return "", false, nil
	}
	return value.(string), true, nil
}

// Set stores value under key with the default expiration
func (m *Memory) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.values.Set(key, value, cache.DefaultExpiration)
	return nil
}

// Clear removes every entry and returns how many there were
func (m *Memory) Clear(_ context.Context) (int, error) {
	count := m.values.ItemCount()
	m.values.Flush()
	return count, nil
}
