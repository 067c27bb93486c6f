package store

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a key is empty
var ErrEmptyKey = errors.New("store key must not be empty")

// KeyValue is a small persistent key-value store
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Scoped prefixes every key with a namespace, typically a visitor id
type Scoped struct {
	inner     KeyValue
	namespace string
}

// NewScoped returns a view of inner restricted to namespace
func NewScoped(inner KeyValue, namespace string) *Scoped {
	return &Scoped{inner: inner, namespace: namespace}
}

// Get reads key within the namespace
func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return s.inner.Get(ctx, s.namespace+"/"+key)
}

// Set writes key within the namespace
func (s *Scoped) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.inner.Set(ctx, s.namespace+"/"+key, value)
}
