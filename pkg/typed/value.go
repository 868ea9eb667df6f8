package typed

import (
	"context"

	"github.com/aretw0/mythos/pkg/store"
)

// Value is a single typed value stored under a key.
type Value[T any] struct {
	store *store.Store
	key   string
}

// NewValue creates a typed value stored at key.
func NewValue[T any](s *store.Store, key string) *Value[T] {
	return &Value[T]{store: s, key: key}
}

// Load returns the stored value, or fallback.
func (v *Value[T]) Load(ctx context.Context, fallback T) T {
	return store.Load(ctx, v.store, v.key, fallback)
}

// Save replaces the stored value.
func (v *Value[T]) Save(ctx context.Context, value T) {
	v.store.Save(ctx, v.key, value)
}
