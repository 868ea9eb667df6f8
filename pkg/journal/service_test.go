package journal_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mythos/pkg/adapters/memory"
	"github.com/aretw0/mythos/pkg/journal"
	"github.com/aretw0/mythos/pkg/store"
)

func setupService(t *testing.T) (*journal.Service, *store.Store) {
	t.Helper()
	st := store.New(memory.New(memory.Config{}))
	clock := time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
	seq := 0
	svc := journal.NewService(st,
		journal.WithClock(func() time.Time { return clock }),
		journal.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("entry-%d", seq)
		}),
	)
	return svc, st
}

func TestService_AddPrependsNewest(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, journal.Draft{Title: "  Prometheus  ", Source: " Hesiod "})
	require.NoError(t, err)
	assert.Equal(t, "Prometheus", first.Title)
	assert.Equal(t, "Hesiod", first.Source)

	_, err = svc.Add(ctx, journal.Draft{Title: "Pandora"})
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Pandora", list[0].Title)
	assert.Equal(t, "Prometheus", list[1].Title)
}

func TestService_AddRequiresTitle(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Add(context.Background(), journal.Draft{Title: "   "})
	assert.ErrorIs(t, err, journal.ErrEmptyTitle)
	assert.Empty(t, svc.List(context.Background()))
}

func TestService_Update(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	e, err := svc.Add(ctx, journal.Draft{Title: "Narcissus"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, journal.Draft{
		Title:   "Narcissus and Echo",
		Answers: map[string]string{journal.QuestionFlaw: "vanity", "bogus": "dropped"},
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)
	assert.True(t, e.Date.Equal(updated.Date))
	assert.Equal(t, "vanity", updated.Answers[journal.QuestionFlaw])
	assert.NotContains(t, updated.Answers, "bogus")
	assert.Equal(t, 1, updated.Filled())

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Narcissus and Echo", got.Title)

	_, err = svc.Update(ctx, "missing", journal.Draft{Title: "x"})
	assert.ErrorIs(t, err, journal.ErrEntryNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	e, err := svc.Add(ctx, journal.Draft{Title: "Icarus"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.Empty(t, svc.List(ctx))
	assert.ErrorIs(t, svc.Delete(ctx, e.ID), journal.ErrEntryNotFound)

	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, journal.ErrEntryNotFound)
}

func TestService_Goal(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()

	assert.Equal(t, journal.DefaultGoal, svc.Goal(ctx))

	assert.Equal(t, 1, svc.SetGoal(ctx, -5))
	assert.Equal(t, 1, svc.Goal(ctx))

	svc.SetGoal(ctx, 50)
	svc.SetGoal(ctx, 75)
	assert.Equal(t, 75, store.Load(ctx, st, store.KeyGoal, 0))
}

func TestService_Progress(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	svc.SetGoal(ctx, 4)

	for _, title := range []string{"Zeus", "Hera", "Athena"} {
		_, err := svc.Add(ctx, journal.Draft{Title: title})
		require.NoError(t, err)
	}
	p := svc.Progress(ctx)
	assert.Equal(t, journal.Progress{Count: 3, Goal: 4, Percent: 75, Remaining: 1}, p)

	_, err := svc.Add(ctx, journal.Draft{Title: "Apollo"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, journal.Draft{Title: "Artemis"})
	require.NoError(t, err)
	p = svc.Progress(ctx)
	assert.Equal(t, float64(100), p.Percent)
	assert.Zero(t, p.Remaining)

	r := svc.Review(ctx)
	assert.Equal(t, journal.TierAchieved, r.Tier)
	assert.Len(t, r.ThisWeek, 5)
}

func TestService_CorruptedEntriesYieldEmptyList(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	require.NoError(t, st.Backend().Set(ctx, store.KeyEntries, "[{broken"))
	assert.Empty(t, svc.List(ctx))
}

func TestQuestions(t *testing.T) {
	qs := journal.Questions()
	require.Len(t, qs, 5)
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
		assert.True(t, journal.IsQuestion(q.ID))
	}
	assert.Equal(t, []string{"flaw", "power", "order", "art", "modern"}, ids)
	assert.False(t, journal.IsQuestion("summary"))
}
