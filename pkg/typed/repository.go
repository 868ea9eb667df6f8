// Package typed provides type-safe views over Store keys.
//
// A [Collection] treats one key as an ordered list of records with unique
// ids; a [Value] treats one key as a single scalar or struct. Both read
// through store.Load, so corrupted or missing data shows up as an empty
// collection or the supplied fallback rather than as an error.
package typed

import (
	"context"

	"github.com/aretw0/mythos/pkg/store"
)

// Collection is an ordered list of records stored under a single key.
// Every mutation rewrites the whole list.
type Collection[T any] struct {
	store *store.Store
	key   string
	id    func(T) string
}

// NewCollection creates a collection stored at key, identifying records with id.
func NewCollection[T any](s *store.Store, key string, id func(T) string) *Collection[T] {
	return &Collection[T]{store: s, key: key, id: id}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored records, or an empty slice.
func (c *Collection[T]) Load(ctx context.Context) []T {
	items := store.Load(ctx, c.store, c.key, []T{})
	if items == nil {
		return []T{}
	}
	return items
}

// Save replaces the stored records.
func (c *Collection[T]) Save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.store.Save(ctx, c.key, items)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool) {
	for _, item := range c.Load(ctx) {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Append adds item at the end and saves.
func (c *Collection[T]) Append(ctx context.Context, item T) []T {
	items := append(c.Load(ctx), item)
	c.Save(ctx, items)
	return items
}

// Prepend adds item at the front and saves.
func (c *Collection[T]) Prepend(ctx context.Context, item T) []T {
	items := append([]T{item}, c.Load(ctx)...)
	c.Save(ctx, items)
	return items
}

// Update applies fn to the record with the given id and saves.
// It returns the updated record, or false when no record has that id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) T) (T, bool) {
	items := c.Load(ctx)
	for i, item := range items {
		if c.id(item) == id {
			items[i] = fn(item)
			c.Save(ctx, items)
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// Delete removes the record with the given id and saves the remaining records.
func (c *Collection[T]) Delete(ctx context.Context, id string) []T {
	return c.DeleteWhere(ctx, func(item T) bool { return c.id(item) == id })
}

// DeleteWhere removes every record matching pred. The collection is only
// rewritten when something was removed.
func (c *Collection[T]) DeleteWhere(ctx context.Context, pred func(T) bool) []T {
	items := c.Load(ctx)
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if !pred(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(items) {
		c.Save(ctx, kept)
	}
	return kept
}

// Filter returns the records matching pred, in stored order.
func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool) []T {
	var out []T
	for _, item := range c.Load(ctx) {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
