package store

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/mythos/pkg/core"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	BackendType  string `json:"backend_type"`
	ImageIDs     string `json:"image_ids"`
	Watchable    bool   `json:"watchable"`
	BackendState any    `json:"backend_state,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	backendType := "unknown"
	var backendState any
	if s.backend != nil {
		backendType = "backend"
		if comp, ok := s.backend.(introspection.Component); ok {
			backendType = comp.ComponentType()
		}
		if in, ok := s.backend.(introspection.Introspectable); ok {
			backendState = in.State()
		}
	}
	_, watchable := s.backend.(core.Watchable)
	return StoreState{
		BackendType:  backendType,
		ImageIDs:     string(s.opts.imageIDs),
		Watchable:    watchable,
		BackendState: backendState,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
