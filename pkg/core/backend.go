package core

import "context"

// Backend is the durable key-value storage the Store writes through.
// Values are opaque text; the Store owns their encoding.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the text stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (text string, ok bool, err error)

	// Set replaces the text stored at key in a single write.
	// Capacity failures are reported as ErrQuotaExceeded.
	Set(ctx context.Context, key, text string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key currently stored, in no particular order.
	Keys(ctx context.Context) ([]string, error)
}

// Watchable is implemented by backends that can report changes to their keys.
type Watchable interface {
	// Watch streams events for keys matching the doublestar pattern until ctx is done.
	// An empty pattern matches every key.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by backends holding resources (database handles).
type Closer interface {
	Close() error
}
