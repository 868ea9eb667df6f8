package journal

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name  string
		now   string
		start string
	}{
		{"wednesday", "2024-01-17T12:00:00Z", "2024-01-15T00:00:00Z"},
		{"monday midnight", "2024-01-15T00:00:00Z", "2024-01-15T00:00:00Z"},
		{"sunday night", "2024-01-21T23:30:00Z", "2024-01-15T00:00:00Z"},
		{"across month", "2024-03-02T08:00:00Z", "2024-02-26T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekRange(at(tt.now))
			assert.True(t, start.Equal(at(tt.start)), "start = %v", start)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
			assert.Equal(t, 7*24*time.Hour-time.Millisecond, end.Sub(start))
		})
	}
}

func TestBuildReview(t *testing.T) {
	now := at("2024-01-17T12:00:00Z")
	entries := []Entry{
		{ID: "e5", Date: at("2024-01-17T10:00:00Z"), Answers: map[string]string{"flaw": "hubris", "power": "x", "order": "y"}},
		{ID: "e4", Date: at("2024-01-16T09:00:00Z"), Answers: map[string]string{"flaw": "envy", "power": "x", "art": "   "}},
		{ID: "e3", Date: at("2024-01-15T00:00:00Z"), Answers: map[string]string{"power": "x"}},
		{ID: "e2", Date: at("2024-01-14T23:59:00Z"), Answers: map[string]string{"power": "x"}},
		{ID: "e1", Date: at("2024-01-01T00:00:00Z"), Answers: map[string]string{"power": "x"}},
	}

	got := BuildReview(entries, 20, now)

	want := Review{
		WeekStart:      at("2024-01-15T00:00:00Z"),
		WeekEnd:        at("2024-01-21T23:59:59.999Z"),
		ThisWeek:       entries[:3],
		Total:          5,
		Goal:           20,
		Percent:        25,
		Weeks:          3,
		AveragePerWeek: 1.7,
		Remaining:      15,
		WeeksNeeded:    9,
		Tier:           TierSteady,
		Fill: []QuestionFill{
			{QuestionID: "flaw", Label: "Kind of flaw", Percent: 40},
			{QuestionID: "power", Label: "Power structure", Percent: 100},
			{QuestionID: "order", Label: "How order is made", Percent: 20},
			{QuestionID: "art", Label: "Depicted in art", Percent: 0},
			{QuestionID: "modern", Label: "Modern connection", Percent: 0},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("BuildReview() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReview_Empty(t *testing.T) {
	r := BuildReview(nil, 100, at("2024-01-17T12:00:00Z"))
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 1, r.Weeks)
	assert.Zero(t, r.AveragePerWeek)
	assert.Equal(t, 100, r.Remaining)
	assert.Equal(t, 1000, r.WeeksNeeded)
	assert.Equal(t, TierNone, r.Tier)
	assert.Empty(t, r.ThisWeek)
	for _, f := range r.Fill {
		assert.Zero(t, f.Percent, f.QuestionID)
	}
}

func TestBuildReview_Tiers(t *testing.T) {
	now := at("2024-01-17T12:00:00Z")
	thisWeek := func(n int) []Entry {
		out := make([]Entry, n)
		for i := range out {
			out[i] = Entry{ID: string(rune('a' + i)), Date: now.Add(-time.Duration(i) * time.Hour)}
		}
		return out
	}

	tests := []struct {
		name    string
		entries []Entry
		goal    int
		want    Tier
	}{
		{"achieved beats weekly pace", thisWeek(2), 2, TierAchieved},
		{"excellent", thisWeek(5), 100, TierExcellent},
		{"steady", thisWeek(3), 100, TierSteady},
		{"started", thisWeek(1), 100, TierStarted},
		{"none", []Entry{{ID: "old", Date: now.Add(-30 * 24 * time.Hour)}}, 100, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildReview(tt.entries, tt.goal, now)
			assert.Equal(t, tt.want, r.Tier)
			assert.NotEmpty(t, r.Tier.Message())
		})
	}
}

func TestBuildReview_GoalReachedNeedsNoWeeks(t *testing.T) {
	now := at("2024-01-17T12:00:00Z")
	entries := []Entry{{ID: "a", Date: now}, {ID: "b", Date: now}}
	r := BuildReview(entries, 1, now)
	assert.Equal(t, 200, r.Percent)
	assert.Zero(t, r.Remaining)
	assert.Zero(t, r.WeeksNeeded)
}
