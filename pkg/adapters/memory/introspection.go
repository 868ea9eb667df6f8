package memory

import (
	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Keys     int  `json:"keys"`
	Size     int  `json:"size"`
	Quota    int  `json:"quota,omitempty"`
	ReadOnly bool `json:"read_only"`
	Watchers int  `json:"watchers"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BackendState{
		Keys:     len(b.data),
		Size:     b.size,
		Quota:    b.config.Quota,
		ReadOnly: b.config.ReadOnly,
		Watchers: len(b.watchers),
	}
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
