// Package lifecycle feeds store change events to lifecycle-managed consumers.
//
// A backend watch yields a plain channel of core.Event; Source adapts it to
// lifecycle.Source and can narrow it to the kinds of change a consumer acts on.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/mythos/pkg/core"
)

// ErrStarted is returned by Start on a Source that is already running.
var ErrStarted = errors.New("source already started")

// Source forwards core.Event values as lifecycle events.
type Source struct {
	in    <-chan core.Event
	out   chan lifecycle.Event
	types map[core.EventType]bool

	once sync.Once
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTypes keeps only events of the given types. No types keeps all.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *Source) {
		if len(types) == 0 {
			return
		}
		s.types = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
}

// WithBuffer sets the capacity of the output channel.
func WithBuffer(n int) SourceOption {
	return func(s *Source) {
		if n > 0 {
			s.out = make(chan lifecycle.Event, n)
		}
	}
}

// NewSource wraps a watch channel. core.Event satisfies lifecycle.Event
// through its String method.
func NewSource(events <-chan core.Event, opts ...SourceOption) *Source {
	s := &Source{in: events, out: make(chan lifecycle.Event)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the output channel. It is closed once forwarding ends.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events in the background until ctx is done or the watch
// channel closes. A Source runs once.
func (s *Source) Start(ctx context.Context) error {
	err := ErrStarted
	s.once.Do(func() {
		err = nil
		lifecycle.Go(ctx, s.forward)
	})
	return err
}

func (s *Source) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		var e core.Event
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.in:
			if !ok {
				return nil
			}
			e = ev
		}
		if s.types != nil && !s.types[e.Type] {
			continue
		}
		select {
		case s.out <- e:
		case <-ctx.Done():
			return nil
		}
	}
}

var _ lifecycle.Source = (*Source)(nil)
