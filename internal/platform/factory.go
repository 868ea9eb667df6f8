package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/mythos/pkg/adapters/fs"
	"github.com/aretw0/mythos/pkg/adapters/memory"
	"github.com/aretw0/mythos/pkg/adapters/sqlstore"
	"github.com/aretw0/mythos/pkg/core"
	"github.com/aretw0/mythos/pkg/store"
)

// Open creates a Store over the configured backend.
// The uri is adapter-specific: a data directory for "fs" and the SQLite
// adapters, a connection string for "postgres", ignored for "memory".
//
//	st, err := platform.Open("./journal", platform.WithAdapter("sqlite"))
func Open(ctx context.Context, uri string, opts ...Option) (*store.Store, error) {
	o := buildOptions(opts)

	backend, err := Init(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	return store.New(backend,
		store.WithLogger(o.logger),
		store.WithErrorHandler(o.errorHandler),
		store.WithImageIDs(o.imageIDs),
	), nil
}

// Init builds and initializes the backend selected by the options.
func Init(ctx context.Context, uri string, o *options) (core.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}

	switch o.adapter {
	case AdapterMemory:
		return memory.New(memory.Config{Quota: o.quota, ReadOnly: o.readOnly}), nil
	case AdapterFS:
		return initFS(ctx, uri, o)
	case AdapterSQLite, AdapterSQLite3, AdapterPostgres:
		return initSQL(ctx, uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// dataPath applies dev safety to a user supplied directory.
func dataPath(path string, o *options) string {
	// Read-only access cannot damage data, so it always sees the real path.
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolveDataPath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	} else if o.logger != nil && IsDevRun() && !o.readOnly {
		o.logger.Warn("running in UNSAFE mode (dev sandbox disabled)", "path", resolved)
	}
	return resolved
}

func initFS(ctx context.Context, path string, o *options) (core.Backend, error) {
	b := fs.New(fs.Config{
		Path:          dataPath(path, o),
		MustExist:     o.mustExist || o.readOnly,
		ReadOnly:      o.readOnly,
		Quota:         o.quota,
		Logger:        o.logger,
		ErrorHandler:  o.errorHandler,
		WatchDebounce: o.watchDebounce,
	})
	if err := b.Initialize(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func initSQL(ctx context.Context, uri string, o *options) (core.Backend, error) {
	dsn := o.dsn
	if o.adapter == AdapterPostgres {
		if dsn == "" {
			dsn = uri
		}
		if dsn == "" {
			return nil, fmt.Errorf("postgres adapter requires a DSN")
		}
	} else if dsn == "" {
		// SQLite keeps its file inside the (sandboxed) data directory.
		dir := dataPath(uri, o)
		if !o.readOnly {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dsn = filepath.Join(dir, sqlstore.DefaultDSN)
	}

	b, err := sqlstore.New(ctx, sqlstore.Config{
		Driver:   sqlstore.Driver(o.adapter),
		DSN:      dsn,
		ReadOnly: o.readOnly,
		Logger:   o.logger,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
