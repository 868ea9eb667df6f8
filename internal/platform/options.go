package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/mythos/pkg/core"
	"github.com/aretw0/mythos/pkg/store"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS       = "fs"
	AdapterMemory   = "memory"
	AdapterSQLite   = "sqlite"
	AdapterSQLite3  = "sqlite3"
	AdapterPostgres = "postgres"
)

// options holds the internal configuration used to open a Store.
type options struct {
	backend       core.Backend
	logger        *slog.Logger
	errorHandler  func(error)
	adapter       string
	dsn           string
	quota         int
	readOnly      bool
	imageIDs      store.ImageIDMode
	watchDebounce time.Duration
	devSafety     bool
	forceTemp     bool
	mustExist     bool
}

// Option defines a functional option for opening a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		imageIDs:  store.ImageIDShort,
		devSafety: true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAdapter selects the storage adapter by name ("fs", "memory", "sqlite",
// "sqlite3" or "postgres"). Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithBackend injects a ready backend. The adapter setting is then ignored.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithLogger sets the logger for the store and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorHandler registers a callback receiving every swallowed write error
// and watcher failure.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithDSN sets the database connection string of the SQL adapters.
// For SQLite it defaults to mythos.db inside the data directory.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithQuota caps the bytes stored by the memory and fs adapters.
// Writes beyond it fail with core.ErrQuotaExceeded. Zero disables the cap.
func WithQuota(bytes int) Option {
	return func(o *options) {
		o.quota = bytes
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Writes fail with core.ErrReadOnly (and are reported, not returned, by the Store).
// 2. The data directory is not created.
// 3. Dev safety is bypassed, so the real data is read.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithImageIDs selects the image id generator.
func WithImageIDs(mode store.ImageIDMode) Option {
	return func(o *options) {
		if mode != "" {
			o.imageIDs = mode
		}
	}
}

// WithWatchDebounce sets the quiet period of the fs watcher.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.watchDebounce = d
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the data directory is re-rooted into a temporary
// directory so development runs never touch real data.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the data directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}
