// Package memory implements core.Backend in process memory.
//
// It is the reference backend for tests and for ephemeral sessions. An
// optional quota mimics the finite capacity of browser storage: a write that
// would push the total size of keys and values past the quota is rejected
// with core.ErrQuotaExceeded and leaves the previous value in place.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/mythos/pkg/core"
)

// Config holds the configuration of the memory backend.
type Config struct {
	// Quota is the maximum total size in bytes of keys plus values. Zero means unlimited.
	Quota int
	// ReadOnly rejects every write with core.ErrReadOnly.
	ReadOnly bool
	// EventBuffer is the channel buffer of each watcher. Zero means 64.
	EventBuffer int
}

// Backend is an in-memory core.Backend.
type Backend struct {
	mu       sync.RWMutex
	data     map[string]string
	size     int
	config   Config
	watchers map[*watcher]struct{}
}

type watcher struct {
	pattern string
	ch      chan core.Event
}

// New creates an empty memory backend.
func New(config Config) *Backend {
	if config.EventBuffer <= 0 {
		config.EventBuffer = 64
	}
	return &Backend{
		data:     make(map[string]string),
		config:   config,
		watchers: make(map[*watcher]struct{}),
	}
}

// Get implements core.Backend.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok, nil
}

// Set implements core.Backend.
func (b *Backend) Set(ctx context.Context, key, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}

	b.mu.Lock()
	old, existed := b.data[key]
	newSize := b.size + len(text)
	if existed {
		newSize -= len(old)
	} else {
		newSize += len(key)
	}
	if b.config.Quota > 0 && newSize > b.config.Quota {
		b.mu.Unlock()
		return fmt.Errorf("setting %q (%d bytes): %w", key, len(text), core.ErrQuotaExceeded)
	}
	b.data[key] = text
	b.size = newSize
	b.mu.Unlock()

	eType := core.EventCreate
	if existed {
		eType = core.EventModify
	}
	b.notify(core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Delete implements core.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}

	b.mu.Lock()
	old, existed := b.data[key]
	if existed {
		delete(b.data, key)
		b.size -= len(key) + len(old)
	}
	b.mu.Unlock()

	if existed {
		b.notify(core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().Unix()})
	}
	return nil
}

// Keys implements core.Backend.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Size returns the total bytes of keys and values held.
func (b *Backend) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Watch implements core.Watchable. Events are dropped for a watcher whose
// buffer is full rather than blocking writers.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w := &watcher{pattern: pattern, ch: make(chan core.Event, b.config.EventBuffer)}

	b.mu.Lock()
	b.watchers[w] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, w)
		close(w.ch)
		b.mu.Unlock()
	}()

	return w.ch, nil
}

func (b *Backend) notify(e core.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for w := range b.watchers {
		if w.pattern != "" {
			if ok, err := doublestar.Match(w.pattern, e.Key); err != nil || !ok {
				continue
			}
		}
		select {
		case w.ch <- e:
		default:
		}
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
