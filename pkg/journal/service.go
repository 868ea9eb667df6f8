package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/maruel/ksid"

	"github.com/aretw0/mythos/pkg/store"
	"github.com/aretw0/mythos/pkg/typed"
)

// DefaultGoal is the goal used until one is saved.
const DefaultGoal = 100

var (
	ErrEmptyTitle    = errors.New("entry title is required")
	ErrEntryNotFound = errors.New("entry not found")
)

// Service performs journal operations against a Store.
type Service struct {
	entries *typed.Collection[Entry]
	goal    *typed.Value[int]
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for entry dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the entry id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a journal service over st.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		entries: typed.NewCollection(st, store.KeyEntries, func(e Entry) string { return e.ID }),
		goal:    typed.NewValue[int](st, store.KeyGoal),
		now:     time.Now,
		newID:   func() string { return ksid.NewID().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a new entry at the top of the list.
func (s *Service) Add(ctx context.Context, d Draft) (Entry, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Entry{}, ErrEmptyTitle
	}
	e := Entry{
		ID:      s.newID(),
		Date:    s.now(),
		Title:   title,
		Source:  strings.TrimSpace(d.Source),
		Answers: cleanAnswers(d.Answers),
	}
	s.entries.Prepend(ctx, e)
	if s.logger != nil {
		s.logger.Debug("journal entry added", "id", e.ID, "title", e.Title)
	}
	return e, nil
}

// Update merges d into the entry with the given id. The id and date are kept.
func (s *Service) Update(ctx context.Context, id string, d Draft) (Entry, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Entry{}, ErrEmptyTitle
	}
	e, ok := s.entries.Update(ctx, id, func(e Entry) Entry {
		e.Title = title
		e.Source = strings.TrimSpace(d.Source)
		e.Answers = cleanAnswers(d.Answers)
		return e
	})
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return e, nil
}

// Delete removes the entry with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	before := len(s.entries.Load(ctx))
	if after := len(s.entries.Delete(ctx, id)); after == before {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return nil
}

// List returns every entry, newest first.
func (s *Service) List(ctx context.Context) []Entry {
	return s.entries.Load(ctx)
}

// Get returns the entry with the given id.
func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	e, ok := s.entries.Get(ctx, id)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return e, nil
}

// Goal returns the saved goal, or DefaultGoal.
func (s *Service) Goal(ctx context.Context) int {
	g := s.goal.Load(ctx, DefaultGoal)
	if g < 1 {
		return 1
	}
	return g
}

// SetGoal saves n, clamped to at least 1, and returns the saved value.
func (s *Service) SetGoal(ctx context.Context, n int) int {
	n = max(n, 1)
	s.goal.Save(ctx, n)
	return n
}

// Progress summarises how far the journal is from its goal.
type Progress struct {
	Count     int     `json:"count"`
	Goal      int     `json:"goal"`
	Percent   float64 `json:"percent"`
	Remaining int     `json:"remaining"`
}

// Progress returns the current progress towards the goal.
func (s *Service) Progress(ctx context.Context) Progress {
	return progressOf(len(s.List(ctx)), s.Goal(ctx))
}

// Review builds the weekly review for the current time.
func (s *Service) Review(ctx context.Context) Review {
	return BuildReview(s.List(ctx), s.Goal(ctx), s.now())
}

func progressOf(count, goal int) Progress {
	goal = max(goal, 1)
	return Progress{
		Count:     count,
		Goal:      goal,
		Percent:   math.Min(float64(count)/float64(goal)*100, 100),
		Remaining: max(goal-count, 0),
	}
}

// cleanAnswers keeps only known questions.
func cleanAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(questions))
	for _, q := range questions {
		if v, ok := in[q.ID]; ok {
			out[q.ID] = v
		}
	}
	return out
}
