package memory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mythos/pkg/core"
)

func TestBackend_CRUD(t *testing.T) {
	ctx := context.Background()
	b := New(Config{})

	_, ok, err := b.Get(ctx, "goal")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "goal", "50"))
	require.NoError(t, b.Set(ctx, "entries", "[]"))

	v, ok, err := b.Get(ctx, "goal")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", v)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"entries", "goal"}, keys)

	require.NoError(t, b.Delete(ctx, "goal"))
	require.NoError(t, b.Delete(ctx, "goal"), "deleting an absent key is not an error")
	_, ok, _ = b.Get(ctx, "goal")
	assert.False(t, ok)
}

func TestBackend_Quota(t *testing.T) {
	ctx := context.Background()
	b := New(Config{Quota: 16})

	require.NoError(t, b.Set(ctx, "k", "0123456789"))
	assert.Equal(t, 11, b.Size())

	err := b.Set(ctx, "big", "0123456789")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrQuotaExceeded))

	// A rejected write leaves nothing behind.
	_, ok, _ := b.Get(ctx, "big")
	assert.False(t, ok)

	// Replacing a value only counts the difference.
	require.NoError(t, b.Set(ctx, "k", "012345678901234"))
	assert.Equal(t, 16, b.Size())

	require.NoError(t, b.Delete(ctx, "k"))
	assert.Equal(t, 0, b.Size())
}

func TestBackend_ReadOnly(t *testing.T) {
	ctx := context.Background()
	b := New(Config{ReadOnly: true})

	assert.ErrorIs(t, b.Set(ctx, "k", "v"), core.ErrReadOnly)
	assert.ErrorIs(t, b.Delete(ctx, "k"), core.ErrReadOnly)
}

func TestBackend_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := New(Config{})

	events, err := b.Watch(ctx, "content:*")
	require.NoError(t, err)

	require.NoError(t, b.Set(ctx, "goal", "1"))
	require.NoError(t, b.Set(ctx, "content:p1:summary", `"a"`))
	require.NoError(t, b.Set(ctx, "content:p1:summary", `"b"`))
	require.NoError(t, b.Delete(ctx, "content:p1:summary"))

	var got []core.EventType
	for len(got) < 3 {
		select {
		case e := <-events:
			assert.Equal(t, "content:p1:summary", e.Key)
			got = append(got, e.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventModify, core.EventDelete}, got)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed")
	}
}

func TestBackend_State(t *testing.T) {
	ctx := context.Background()
	b := New(Config{Quota: 100})
	require.NoError(t, b.Set(ctx, "a", "1"))

	state, ok := b.State().(BackendState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Keys)
	assert.Equal(t, 2, state.Size)
	assert.Equal(t, 100, state.Quota)
	assert.Equal(t, "memory", b.ComponentType())
}
