package mythos

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/mythos/internal/platform"
	"github.com/aretw0/mythos/pkg/core"
	"github.com/aretw0/mythos/pkg/journal"
	"github.com/aretw0/mythos/pkg/notes"
	"github.com/aretw0/mythos/pkg/store"
)

// --- Types ---

// Store is the key to JSON value store.
type Store = store.Store

// Backend is the durable key-value storage a Store writes through.
type Backend = core.Backend

// Event is a change to a stored key.
type Event = core.Event

// Draft carries user input for a journal entry.
type Draft = journal.Draft

// Config mirrors mythos.yaml.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for opening a Store.
type Option = platform.Option

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBackend injects a ready backend.
func WithBackend(b Backend) Option {
	return platform.WithBackend(b)
}

// WithLogger sets the logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithErrorHandler registers a callback receiving swallowed write errors.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithDSN sets the database connection string of the SQL adapters.
func WithDSN(dsn string) Option {
	return platform.WithDSN(dsn)
}

// WithQuota caps the bytes stored by the memory and fs adapters.
func WithQuota(bytes int) Option {
	return platform.WithQuota(bytes)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithImageIDs selects the image id generator ("short" or "uuid").
func WithImageIDs(mode store.ImageIDMode) Option {
	return platform.WithImageIDs(mode)
}

// WithWatchDebounce sets the quiet period of the filesystem watcher.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// WithDevSafety controls the temporary sandbox used under go run and go test.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the data directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// LoadConfig reads a mythos.yaml file.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Factory ---

// Open creates a Store over the configured backend.
func Open(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	return platform.Open(ctx, uri, opts...)
}

// NewJournal creates the journal service over st.
func NewJournal(st *Store, opts ...journal.Option) *journal.Service {
	return journal.NewService(st, opts...)
}

// NewNotes creates the notes service over st.
func NewNotes(st *Store, opts ...notes.Option) *notes.Service {
	return notes.NewService(st, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun reports whether the binary was built by go run or go test.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for mythos.yaml or a .mythos directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
