// Package sqlstore keeps the key-value mapping in a single SQL table.
//
// Supported drivers are "sqlite" (pure Go), "sqlite3" (cgo) and "postgres".
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/aretw0/mythos/pkg/core"
)

// Driver names a database/sql driver.
type Driver string

const (
	SQLite    Driver = "sqlite"
	SQLiteCgo Driver = "sqlite3"
	Postgres  Driver = "postgres"
)

// DefaultDSN is the SQLite database file used when no DSN is configured.
const DefaultDSN = "mythos.db"

// Config holds the configuration of the SQL backend.
type Config struct {
	Driver   Driver
	DSN      string
	ReadOnly bool
	Logger   *slog.Logger
}

// Backend implements core.Backend on the kv table.
type Backend struct {
	db     *sql.DB
	config Config
}

// New opens the database, checks the connection and creates the kv table.
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Driver == "" {
		config.Driver = SQLite
	}
	if config.DSN == "" {
		config.DSN = DefaultDSN
	}
	switch config.Driver {
	case SQLite, SQLiteCgo, Postgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", config.Driver)
	}

	db, err := sql.Open(string(config.Driver), config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}
	if config.Driver != Postgres {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.Driver, err)
	}

	b := &Backend{db: db, config: config}
	if !config.ReadOnly {
		if err := b.initSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if config.Logger != nil {
		config.Logger.Debug("sql backend ready", "driver", config.Driver)
	}
	return b, nil
}

func (b *Backend) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		item_key TEXT PRIMARY KEY,
		item_value TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	);`
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

// rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
func (b *Backend) rebind(query string) string {
	if b.config.Driver != Postgres {
		return query
	}
	var out strings.Builder
	n := 1
	for _, c := range query {
		if c == '?' {
			fmt.Fprintf(&out, "$%d", n)
			n++
			continue
		}
		out.WriteRune(c)
	}
	return out.String()
}

// Get implements core.Backend.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := b.db.QueryRowContext(ctx, b.rebind("SELECT item_value FROM kv WHERE item_key = ?"), key).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return text, true, nil
}

// Set implements core.Backend with a single upsert.
func (b *Backend) Set(ctx context.Context, key, text string) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	const upsert = `INSERT INTO kv (item_key, item_value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`
	if _, err := b.db.ExecContext(ctx, b.rebind(upsert), key, text, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements core.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	if _, err := b.db.ExecContext(ctx, b.rebind("DELETE FROM kv WHERE item_key = ?"), key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys implements core.Backend.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT item_key FROM kv")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last written.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var ms int64
	err := b.db.QueryRowContext(ctx, b.rebind("SELECT updated_at FROM kv WHERE item_key = ?"), key).Scan(&ms)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return time.UnixMilli(ms), true, nil
}

// Close implements core.Closer.
func (b *Backend) Close() error {
	return b.db.Close()
}

var (
	_ core.Backend = (*Backend)(nil)
	_ core.Closer  = (*Backend)(nil)
)
