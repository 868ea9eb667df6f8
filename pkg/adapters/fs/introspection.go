package fs

import (
	"context"
	"time"

	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Path          string     `json:"path"`
	ReadOnly      bool       `json:"read_only"`
	Quota         int        `json:"quota,omitempty"`
	Keys          int        `json:"keys"`
	Size          int        `json:"size"`
	WatcherActive bool       `json:"watcher_active"`
	Watchers      int        `json:"watchers"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	keys, _ := b.Keys(context.Background())

	b.mu.RLock()
	defer b.mu.RUnlock()
	size, _ := b.usage("")

	return BackendState{
		Path:          b.Path,
		ReadOnly:      b.config.ReadOnly,
		Quota:         b.config.Quota,
		Keys:          len(keys),
		Size:          size,
		WatcherActive: b.watchers > 0,
		Watchers:      b.watchers,
		LastEvent:     b.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "filesystem"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)

func (b *Backend) addWatcher(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watchers += delta
}

func (b *Backend) recordEvent(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastEvent = &at
}
