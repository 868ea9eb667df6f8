package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mythos/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
backend: sqlite
path: data
quota_bytes: 5242880
image_ids: uuid
debounce: 250ms
read_only: true
log_level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, AdapterSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data"), cfg.DataPath())
	assert.Equal(t, 5242880, cfg.QuotaBytes)
	assert.True(t, cfg.ReadOnly)

	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	o := buildOptions(cfg.Options())
	assert.Equal(t, AdapterSQLite, o.adapter)
	assert.Equal(t, store.ImageIDUUID, o.imageIDs)
	assert.Equal(t, 5242880, o.quota)
	assert.True(t, o.readOnly)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	o := buildOptions(cfg.Options())
	assert.Equal(t, AdapterFS, o.adapter)
	assert.Equal(t, store.ImageIDShort, o.imageIDs)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "backend: [",
		"bad backend":   "backend: redis",
		"bad image ids": "image_ids: sequential",
		"bad debounce":  "debounce: soon",
		"bad level":     "log_level: loud",
		"bad quota":     "quota_bytes: -1",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
