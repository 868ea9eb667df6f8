package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/maruel/ksid"

	"github.com/aretw0/mythos/pkg/store"
	"github.com/aretw0/mythos/pkg/typed"
)

var (
	ErrEmptyName        = errors.New("name is required")
	ErrCategoryNotFound = errors.New("category not found")
	ErrPageNotFound     = errors.New("page not found")
	ErrUnknownPanel     = errors.New("unknown panel")
)

// Service performs note operations against a Store.
type Service struct {
	store      *store.Store
	categories *typed.Collection[Category]
	pages      *typed.Collection[Page]
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for page timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the category and page id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a notes service over st.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		categories: typed.NewCollection(st, store.KeyCategories, func(c Category) string { return c.ID }),
		pages:      typed.NewCollection(st, store.KeyPages, func(p Page) string { return p.ID }),
		now:        time.Now,
		newID:      func() string { return ksid.NewID().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store {
	return s.store
}

// --- Categories ---

// AddCategory appends a category named name.
func (s *Service) AddCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	cats := s.categories.Load(ctx)
	c := Category{ID: s.newID(), Name: name, Order: len(cats)}
	s.categories.Save(ctx, append(cats, c))
	s.debug("category added", "id", c.ID, "name", c.Name)
	return c, nil
}

// RenameCategory changes the name of a category.
func (s *Service) RenameCategory(ctx context.Context, id, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	c, ok := s.categories.Update(ctx, id, func(c Category) Category {
		c.Name = name
		return c
	})
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return c, nil
}

// ListCategories returns the categories sorted by Order.
func (s *Service) ListCategories(ctx context.Context) []Category {
	cats := s.categories.Load(ctx)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })
	return cats
}

// Category returns the category with the given id.
func (s *Service) Category(ctx context.Context, id string) (Category, error) {
	c, ok := s.categories.Get(ctx, id)
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return c, nil
}

// DeleteCategory removes a category together with its pages and their
// panel content. Children are removed first, so an interrupted cascade
// leaves a smaller category rather than orphaned pages.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := s.categories.Get(ctx, id); !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	removed := 0
	for _, p := range s.pages.Load(ctx) {
		if p.CategoryID == id {
			s.removeContent(ctx, p.ID)
			removed++
		}
	}
	s.pages.DeleteWhere(ctx, func(p Page) bool { return p.CategoryID == id })
	s.categories.Delete(ctx, id)
	s.debug("category deleted", "id", id, "pages", removed)
	return nil
}

// --- Pages ---

// AddPage creates a page in an existing category.
func (s *Service) AddPage(ctx context.Context, categoryID, title string) (Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Page{}, ErrEmptyName
	}
	if _, ok := s.categories.Get(ctx, categoryID); !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	now := s.now()
	p := Page{
		ID:         s.newID(),
		CategoryID: categoryID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.pages.Append(ctx, p)
	s.debug("page added", "id", p.ID, "category", categoryID)
	return p, nil
}

// RenamePage changes the title of a page and bumps UpdatedAt.
func (s *Service) RenamePage(ctx context.Context, id, title string) (Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Page{}, ErrEmptyName
	}
	now := s.now()
	p, ok := s.pages.Update(ctx, id, func(p Page) Page {
		p.Title = title
		p.UpdatedAt = now
		return p
	})
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return p, nil
}

// Pages returns the pages of a category in creation order.
// An empty categoryID returns every page.
func (s *Service) Pages(ctx context.Context, categoryID string) []Page {
	if categoryID == "" {
		return s.pages.Load(ctx)
	}
	out := s.pages.Filter(ctx, func(p Page) bool { return p.CategoryID == categoryID })
	if out == nil {
		return []Page{}
	}
	return out
}

// Page returns the page with the given id.
func (s *Service) Page(ctx context.Context, id string) (Page, error) {
	p, ok := s.pages.Get(ctx, id)
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return p, nil
}

// PageCount returns the number of pages in a category.
func (s *Service) PageCount(ctx context.Context, categoryID string) int {
	return len(s.Pages(ctx, categoryID))
}

// DeletePage removes a page and its panel content.
func (s *Service) DeletePage(ctx context.Context, id string) error {
	if _, ok := s.pages.Get(ctx, id); !ok {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	s.removeContent(ctx, id)
	s.pages.Delete(ctx, id)
	s.debug("page deleted", "id", id)
	return nil
}

// Orphans returns the pages whose category no longer exists.
func (s *Service) Orphans(ctx context.Context) []Page {
	known := make(map[string]bool)
	for _, c := range s.categories.Load(ctx) {
		known[c.ID] = true
	}
	return s.pages.Filter(ctx, func(p Page) bool { return !known[p.CategoryID] })
}

// OrphanContent returns the content keys whose page no longer exists,
// or whose panel is not one of the known panels.
func (s *Service) OrphanContent(ctx context.Context) []store.ContentKey {
	known := make(map[string]bool)
	for _, p := range s.pages.Load(ctx) {
		known[p.ID] = true
	}
	var out []store.ContentKey
	for _, ck := range s.store.ContentKeys(ctx) {
		if !known[ck.PageID] || !IsPanel(ck.PanelID) {
			out = append(out, ck)
		}
	}
	return out
}

// --- Panel content ---

// ReadPanel returns the Markdown of one panel of a page. Missing content is empty.
func (s *Service) ReadPanel(ctx context.Context, pageID, panelID string) (string, error) {
	if !IsPanel(panelID) {
		return "", fmt.Errorf("%w: %s", ErrUnknownPanel, panelID)
	}
	return store.Load(ctx, s.store, store.NoteContentKey(pageID, panelID), ""), nil
}

// WritePanel replaces the Markdown of one panel of a page.
func (s *Service) WritePanel(ctx context.Context, pageID, panelID, markdown string) error {
	if !IsPanel(panelID) {
		return fmt.Errorf("%w: %s", ErrUnknownPanel, panelID)
	}
	s.store.Save(ctx, store.NoteContentKey(pageID, panelID), markdown)
	return nil
}

func (s *Service) removeContent(ctx context.Context, pageID string) {
	for _, p := range panels {
		s.store.Remove(ctx, store.NoteContentKey(pageID, p.ID))
	}
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
