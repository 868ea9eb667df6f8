package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/mythos/pkg/store"
)

// Config mirrors mythos.yaml.
type Config struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	DSN        string `yaml:"dsn"`
	QuotaBytes int    `yaml:"quota_bytes"`
	ImageIDs   string `yaml:"image_ids"`
	// Debounce is the editor save delay, e.g. "400ms".
	Debounce string `yaml:"debounce"`
	ReadOnly bool   `yaml:"read_only"`
	LogLevel string `yaml:"log_level"`

	// dir is the directory holding the file; relative paths resolve against it.
	dir string
}

// LoadConfig reads a mythos.yaml file. A missing file yields an empty Config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated and duration fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "", AdapterFS, AdapterMemory, AdapterSQLite, AdapterSQLite3, AdapterPostgres:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch store.ImageIDMode(c.ImageIDs) {
	case "", store.ImageIDShort, store.ImageIDUUID:
	default:
		return fmt.Errorf("unknown image_ids %q", c.ImageIDs)
	}
	if c.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative")
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DataPath returns the configured data path, resolved against the config
// file's directory when relative.
func (c Config) DataPath() string {
	if c.Path == "" || filepath.IsAbs(c.Path) || c.dir == "" {
		return c.Path
	}
	return filepath.Join(c.dir, c.Path)
}

// DebounceDuration returns the editor save delay, zero when unset.
func (c Config) DebounceDuration() (time.Duration, error) {
	if c.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", c.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("debounce must not be negative")
	}
	return d, nil
}

// Options converts the file settings into Options.
func (c Config) Options() []Option {
	opts := []Option{
		WithAdapter(c.Backend),
		WithImageIDs(store.ImageIDMode(c.ImageIDs)),
	}
	if c.DSN != "" {
		opts = append(opts, WithDSN(c.DSN))
	}
	if c.QuotaBytes > 0 {
		opts = append(opts, WithQuota(c.QuotaBytes))
	}
	if c.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}
	return opts
}

// ParseLevel maps a log_level value to a slog level. Empty means Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}
