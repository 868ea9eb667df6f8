package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/mythos/pkg/core"
)

// Store is a key to JSON value mapping over a core.Backend.
type Store struct {
	backend core.Backend
	opts    *options

	// imagesMu serialises the read-modify-write of the images map.
	imagesMu sync.Mutex
}

// New creates a Store writing through backend.
func New(backend core.Backend, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Store{backend: backend, opts: o}
}

// Backend returns the underlying backend.
func (s *Store) Backend() core.Backend {
	return s.backend
}

// Load decodes the value stored at key into a T.
// It returns fallback when the key is absent, the stored text is empty or
// does not decode into T, or the backend fails. It never panics.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok := s.Raw(ctx, key)
	if !ok || raw == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.debug("stored value unreadable, using fallback", "key", key, "error", err)
		return fallback
	}
	return v
}

// Read decodes the value stored at key and reports what Load hides: ok is
// false when the key is absent or empty, and err is set when the backend
// fails or the text does not decode into T.
func Read[T any](ctx context.Context, s *Store, key string) (v T, ok bool, err error) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return v, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return v, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return v, true, nil
}

// Raw returns the undecoded text stored at key.
// Backend errors are logged and reported as absent.
func (s *Store) Raw(ctx context.Context, key string) (string, bool) {
	text, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.debug("backend read failed, treating key as absent", "key", key, "error", err)
		return "", false
	}
	return text, ok
}

// Save encodes value as JSON and writes it at key, replacing the previous value.
// Failures are reported to the logger and error handler, never to the caller.
func (s *Store) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.report(fmt.Errorf("failed to encode %s: %w", key, err), key)
		return
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		s.report(fmt.Errorf("failed to save %s: %w", key, err), key)
	}
}

// Remove deletes key. Failures are reported like Save failures.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.report(fmt.Errorf("failed to remove %s: %w", key, err), key)
	}
}

// Keys returns the sorted keys matching the doublestar pattern.
// An empty pattern matches every key. Backend errors yield no keys.
func (s *Store) Keys(ctx context.Context, pattern string) []string {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		s.debug("backend key listing failed", "error", err)
		return nil
	}
	out := keys[:0:0]
	for _, k := range keys {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, k)
			if err != nil || !ok {
				continue
			}
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ContentKeys returns every panel content key present, in key order.
// Backend errors yield no keys.
func (s *Store) ContentKeys(ctx context.Context) []ContentKey {
	return contentKeys(s.Keys(ctx, ""))
}

// ScanContentKeys is ContentKeys for callers that must not mistake a failed
// listing for an empty one.
func (s *Store) ScanContentKeys(ctx context.Context) ([]ContentKey, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return contentKeys(keys), nil
}

func contentKeys(keys []string) []ContentKey {
	var out []ContentKey
	for _, k := range keys {
		if ck, ok := ParseContentKey(k); ok {
			out = append(out, ck)
		}
	}
	return out
}

// Watch streams change events for keys matching pattern.
// It returns core.ErrNotWatchable if the backend cannot observe changes.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	w, ok := s.backend.(core.Watchable)
	if !ok {
		return nil, core.ErrNotWatchable
	}
	return w.Watch(ctx, pattern)
}

// Close releases backend resources, if the backend holds any.
func (s *Store) Close() error {
	if c, ok := s.backend.(core.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) report(err error, key string) {
	if s.opts.logger != nil {
		s.opts.logger.Error("storage write failed", "key", key, "error", err)
	}
	if s.opts.errorHandler != nil {
		s.opts.errorHandler(err)
	}
}

func (s *Store) debug(msg string, args ...any) {
	if s.opts.logger != nil {
		s.opts.logger.Debug(msg, args...)
	}
}
