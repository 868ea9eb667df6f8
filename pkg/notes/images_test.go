package notes_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mythos/pkg/adapters/memory"
	"github.com/aretw0/mythos/pkg/core"
	"github.com/aretw0/mythos/pkg/notes"
	"github.com/aretw0/mythos/pkg/store"
)

const pixel = "data:image/png;base64,iVBORw0KGgo="

func TestInsertImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	md := f.svc.InsertImage(ctx, pixel, "a [tiny] pixel")
	assert.Regexp(t, regexp.MustCompile(`^!\[a tiny pixel\]\(img:[0-9a-z]+\)$`), md)

	ids := notes.ImageRefs(md)
	require.Len(t, ids, 1)
	data, ok := f.store.GetImage(ctx, ids[0])
	require.True(t, ok)
	assert.Equal(t, pixel, data)
}

func TestImageRefs(t *testing.T) {
	md := "![a](img:abc123) text ![b](img:def-456) again ![a](img:abc123)"
	assert.Equal(t, []string{"abc123", "def-456"}, notes.ImageRefs(md))
	assert.Empty(t, notes.ImageRefs("no images here"))
}

func TestResolveImages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	md := f.svc.InsertImage(ctx, pixel, "p") + "\n![gone](img:zzzz)"
	resolved := f.svc.ResolveImages(ctx, md)
	assert.Equal(t, "![p]("+pixel+")\n![gone]("+notes.MissingImage+")", resolved)

	assert.Equal(t, "plain", f.svc.ResolveImages(ctx, "plain"))
}

func TestPruneImages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	kept := f.svc.InsertImage(ctx, pixel, "kept")
	require.NoError(t, f.svc.WritePanel(ctx, "page", "art", "see "+kept))
	unused := f.store.SaveImage(ctx, "data:unused")

	removed, err := f.svc.PruneImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{unused}, removed)

	all := f.store.AllImages(ctx)
	assert.Len(t, all, 1)
	assert.Equal(t, notes.ImageRefs(kept)[0], firstKey(all))

	removed, err = f.svc.PruneImages(ctx)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

// failingKeysBackend fails key listings while fail is set.
type failingKeysBackend struct {
	core.Backend
	fail bool
}

func (b *failingKeysBackend) Keys(ctx context.Context) ([]string, error) {
	if b.fail {
		return nil, errors.New("listing unavailable")
	}
	return b.Backend.Keys(ctx)
}

func TestPruneImages_KeepsImagesWhenListingFails(t *testing.T) {
	ctx := context.Background()
	backend := &failingKeysBackend{Backend: memory.New(memory.Config{})}
	st := store.New(backend)
	svc := notes.NewService(st)

	ref := svc.InsertImage(ctx, pixel, "zeus")
	require.NoError(t, svc.WritePanel(ctx, "page", "art", ref))

	backend.fail = true
	removed, err := svc.PruneImages(ctx)
	require.Error(t, err)
	assert.Empty(t, removed)
	assert.Len(t, st.AllImages(ctx), 1)

	backend.fail = false
	removed, err = svc.PruneImages(ctx)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Len(t, st.AllImages(ctx), 1)
}

func TestPruneImages_KeepsImagesWhenPanelUnreadable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ref := f.svc.InsertImage(ctx, pixel, "zeus")
	// Panel text written without JSON quoting does not decode as a string.
	key := store.NoteContentKey("page", "art")
	require.NoError(t, f.backend.Set(ctx, key, "see "+ref))

	removed, err := f.svc.PruneImages(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), key)
	assert.Empty(t, removed)
	assert.Len(t, f.store.AllImages(ctx), 1)
}

func firstKey(m map[string]string) string {
	for k := range m {
		return k
	}
	return ""
}
