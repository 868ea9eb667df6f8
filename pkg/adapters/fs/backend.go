// Package fs stores each key as one JSON file in a data directory.
//
// File names are the lowercase base32hex encoding of the key plus ".json",
// so any key maps to exactly one portable file name and case-insensitive
// filesystems cannot merge two keys.
package fs

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/mythos/pkg/core"
)

const fileExt = ".json"

var keyEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// Config holds the configuration of the filesystem backend.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	// Quota caps the bytes of all keys and values together. Zero disables it.
	Quota        int
	Logger       *slog.Logger
	ErrorHandler func(error)
	// WatchDebounce coalesces bursts of file events per key. Zero uses 50ms.
	WatchDebounce time.Duration
}

// Backend implements core.Backend on a directory.
type Backend struct {
	Path   string
	config Config

	// mu serialises writers so quota checks see a stable directory.
	mu sync.RWMutex

	watchers  int
	lastEvent *time.Time
}

// New creates a filesystem backend. Call Initialize before use.
func New(config Config) *Backend {
	if config.WatchDebounce <= 0 {
		config.WatchDebounce = 50 * time.Millisecond
	}
	return &Backend{
		Path:   config.Path,
		config: config,
	}
}

// Initialize prepares the data directory and removes leftovers of
// interrupted writes.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist {
		info, err := os.Stat(b.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", b.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", b.Path)
		}
	} else if !b.config.ReadOnly {
		if err := os.MkdirAll(b.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if b.config.ReadOnly {
		return nil
	}
	n, err := removeStaleTemps(b.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clean data directory: %w", err)
	}
	if n > 0 && b.config.Logger != nil {
		b.config.Logger.Warn("removed interrupted writes", "path", b.Path, "count", n)
	}
	return nil
}

// FileName returns the file name storing key.
func FileName(key string) string {
	return strings.ToLower(keyEncoding.EncodeToString([]byte(key))) + fileExt
}

// KeyFromFileName inverts FileName. ok is false for files the backend did not write.
func KeyFromFileName(name string) (string, bool) {
	if strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	enc, found := strings.CutSuffix(name, fileExt)
	if !found || enc != strings.ToLower(enc) {
		return "", false
	}
	raw, err := keyEncoding.DecodeString(strings.ToUpper(enc))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (b *Backend) filePath(key string) string {
	return filepath.Join(b.Path, FileName(key))
}

// Get implements core.Backend.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.filePath(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements core.Backend.
func (b *Backend) Set(ctx context.Context, key, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.config.Quota > 0 {
		used, err := b.usage(key)
		if err != nil {
			return err
		}
		if need := used + len(key) + len(text); need > b.config.Quota {
			return fmt.Errorf("%w: %s needs %d of %d bytes", core.ErrQuotaExceeded, key, need, b.config.Quota)
		}
	}

	if err := writeFileAtomic(b.filePath(key), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete implements core.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.config.ReadOnly {
		return core.ErrReadOnly
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.filePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys implements core.Backend. Files the backend did not write are ignored.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries, err := os.ReadDir(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := KeyFromFileName(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// usage returns the bytes held by every key except skip. Callers hold mu.
func (b *Backend) usage(skip string) (int, error) {
	entries, err := os.ReadDir(b.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to measure data directory: %w", err)
	}
	total := 0
	for _, e := range entries {
		key, ok := KeyFromFileName(e.Name())
		if !ok || e.IsDir() || key == skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += len(key) + int(info.Size())
	}
	return total, nil
}
