package store_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mythos/pkg/adapters/memory"
	"github.com/aretw0/mythos/pkg/core"
	"github.com/aretw0/mythos/pkg/store"
)

type category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type page struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Title      string `json:"title"`
}

// failingBackend fails every operation with err.
type failingBackend struct {
	err error
}

func (f failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingBackend) Set(context.Context, string, string) error        { return f.err }
func (f failingBackend) Delete(context.Context, string) error             { return f.err }
func (f failingBackend) Keys(context.Context) ([]string, error)           { return nil, f.err }

func newStore(t *testing.T, opts ...store.Option) (*store.Store, *memory.Backend) {
	t.Helper()
	b := memory.New(memory.Config{})
	return store.New(b, opts...), b
}

func TestLoad_UnwrittenKeyReturnsFallback(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	fallback := []category{{ID: "c0", Name: "keep"}}
	got := store.Load(ctx, s, "never-written", fallback)
	require.Len(t, got, 1)
	assert.Same(t, &fallback[0], &got[0], "fallback must be returned as is")

	assert.Equal(t, 100, store.Load(ctx, s, store.KeyGoal, 100))
	assert.Equal(t, "", store.Load(ctx, s, store.NoteContentKey("p", "summary"), ""))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	cats := []category{{ID: "c1", Name: "Myths", Order: 0}, {ID: "c2", Name: "Heroes", Order: 1}}
	s.Save(ctx, store.KeyCategories, cats)
	assert.Equal(t, cats, store.Load(ctx, s, store.KeyCategories, []category{{ID: "other"}}))

	s.Save(ctx, store.NoteContentKey("p1", "summary"), "# Zeus\n\nKing of the gods.")
	assert.Equal(t, "# Zeus\n\nKing of the gods.", store.Load(ctx, s, store.NoteContentKey("p1", "summary"), ""))

	answers := map[string]string{"flaw": "hubris"}
	s.Save(ctx, "answers", answers)
	assert.Equal(t, answers, store.Load(ctx, s, "answers", map[string]string(nil)))
}

func TestLoad_CorruptedTextReturnsFallback(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()

	for _, raw := range []string{"{not json", "[1,2", "\x00\x01", "undefined"} {
		require.NoError(t, b.Set(ctx, store.KeyPages, raw))
		got := store.Load(ctx, s, store.KeyPages, []page{{ID: "fallback"}})
		assert.Equal(t, []page{{ID: "fallback"}}, got, "raw %q", raw)
	}

	// Valid JSON of the wrong shape is treated the same way.
	require.NoError(t, b.Set(ctx, store.KeyGoal, `"fifty"`))
	assert.Equal(t, 7, store.Load(ctx, s, store.KeyGoal, 7))

	// Empty text counts as absent.
	require.NoError(t, b.Set(ctx, store.KeyGoal, ""))
	assert.Equal(t, 7, store.Load(ctx, s, store.KeyGoal, 7))
}

func TestLoad_BackendErrorReturnsFallback(t *testing.T) {
	s := store.New(failingBackend{err: errors.New("storage disabled")})
	ctx := context.Background()

	assert.Equal(t, 3, store.Load(ctx, s, store.KeyGoal, 3))
	assert.Nil(t, s.Keys(ctx, ""))
	_, ok := s.GetImage(ctx, "abc")
	assert.False(t, ok)
}

func TestSave_FailureIsReportedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var handled []error
	b := memory.New(memory.Config{Quota: 8})
	s := store.New(b, store.WithLogger(logger), store.WithErrorHandler(func(err error) {
		handled = append(handled, err)
	}))
	ctx := context.Background()

	s.Save(ctx, store.KeyImages, map[string]string{"id": "a-very-large-payload"})

	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], core.ErrQuotaExceeded)
	assert.Contains(t, logs.String(), "storage write failed")

	// Nothing was persisted.
	assert.Empty(t, s.AllImages(ctx))
}

func TestSave_EncodeFailureIsReported(t *testing.T) {
	var handled error
	s, _ := newStore(t, store.WithErrorHandler(func(err error) { handled = err }))

	s.Save(context.Background(), "bad", make(chan int))
	require.Error(t, handled)
	assert.Contains(t, handled.Error(), "failed to encode bad")
}

func TestSave_IsIdempotentFullReplace(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()

	v := []page{{ID: "p1", CategoryID: "c1", Title: "Zeus"}}
	s.Save(ctx, store.KeyPages, v)
	s.Save(ctx, store.KeyPages, v)

	assert.Equal(t, v, store.Load(ctx, s, store.KeyPages, []page(nil)))
	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSave_NoCascadeOnCategoryDelete(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Save(ctx, store.KeyCategories, []category{{ID: "c1", Name: "Myths", Order: 0}})
	s.Save(ctx, store.KeyPages, []page{{ID: "p1", CategoryID: "c1", Title: "Zeus"}})
	s.Save(ctx, store.KeyCategories, []category{})

	assert.Empty(t, store.Load(ctx, s, store.KeyCategories, []category{{ID: "x"}}))
	pages := store.Load(ctx, s, store.KeyPages, []page(nil))
	require.Len(t, pages, 1)
	assert.Equal(t, "c1", pages[0].CategoryID)
}

func TestSave_LastWriteWins(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Save(ctx, store.KeyGoal, 50)
	s.Save(ctx, store.KeyGoal, 75)
	assert.Equal(t, 75, store.Load(ctx, s, store.KeyGoal, 0))
}

func TestRemove(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Save(ctx, store.KeyGoal, 10)
	s.Remove(ctx, store.KeyGoal)
	assert.Equal(t, 1, store.Load(ctx, s, store.KeyGoal, 1))
}

func TestKeys_Pattern(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Save(ctx, store.KeyGoal, 1)
	s.Save(ctx, store.NoteContentKey("p2", "art"), "x")
	s.Save(ctx, store.NoteContentKey("p1", "summary"), "y")

	assert.Equal(t, []string{"content:p1:summary", "content:p2:art", "goal"}, s.Keys(ctx, ""))
	assert.Equal(t, []string{"content:p1:summary", "content:p2:art"}, s.Keys(ctx, "content:*"))
	assert.Equal(t, []string{"content:p1:summary"}, s.Keys(ctx, "content:p1:*"))
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, _ := newStore(t)
	events, err := s.Watch(ctx, "goal")
	require.NoError(t, err)

	s.Save(ctx, store.KeyGoal, 5)
	e := <-events
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, "goal", e.Key)

	_, err = s.Watch(ctx, "[")
	assert.Error(t, err)

	unwatchable := store.New(failingBackend{})
	_, err = unwatchable.Watch(ctx, "")
	assert.ErrorIs(t, err, core.ErrNotWatchable)
}

func TestState(t *testing.T) {
	s, _ := newStore(t, store.WithImageIDs(store.ImageIDUUID))
	state, ok := s.State().(store.StoreState)
	require.True(t, ok)
	assert.Equal(t, "memory", state.BackendType)
	assert.Equal(t, "uuid", state.ImageIDs)
	assert.True(t, state.Watchable)
	assert.Equal(t, "store", s.ComponentType())
}

func TestRead_ReportsWhatLoadHides(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()

	_, ok, err := store.Read[int](ctx, s, store.KeyGoal)
	require.NoError(t, err)
	assert.False(t, ok)

	s.Save(ctx, store.KeyGoal, 42)
	v, ok, err := store.Read[int](ctx, s, store.KeyGoal)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	require.NoError(t, b.Set(ctx, store.KeyGoal, "{not json"))
	_, ok, err = store.Read[int](ctx, s, store.KeyGoal)
	assert.Error(t, err)
	assert.False(t, ok)

	broken := store.New(failingBackend{err: errors.New("storage disabled")})
	_, _, err = store.Read[int](ctx, broken, store.KeyGoal)
	assert.ErrorContains(t, err, "storage disabled")
}

func TestScanContentKeys(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()

	s.Save(ctx, store.NoteContentKey("p2", "art"), "b")
	s.Save(ctx, store.NoteContentKey("p1", "summary"), "a")
	s.Save(ctx, store.KeyGoal, 5)
	// Not the canonical encoding of any content key.
	require.NoError(t, b.Set(ctx, "content:p%3a1:art", `"x"`))

	keys, err := s.ScanContentKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.ContentKey{{PageID: "p1", PanelID: "summary"}, {PageID: "p2", PanelID: "art"}}, keys)
	assert.Equal(t, keys, s.ContentKeys(ctx))

	broken := store.New(failingBackend{err: errors.New("storage disabled")})
	_, err = broken.ScanContentKeys(ctx)
	assert.Error(t, err)
	assert.Empty(t, broken.ContentKeys(ctx))
}
