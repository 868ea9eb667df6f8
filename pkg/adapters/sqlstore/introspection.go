package sqlstore

import (
	"context"

	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Driver    string `json:"driver"`
	ReadOnly  bool   `json:"read_only"`
	Keys      int    `json:"keys"`
	OpenConns int    `json:"open_conns"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	var n int
	_ = b.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM kv").Scan(&n)
	return BackendState{
		Driver:    string(b.config.Driver),
		ReadOnly:  b.config.ReadOnly,
		Keys:      n,
		OpenConns: b.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sql"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
