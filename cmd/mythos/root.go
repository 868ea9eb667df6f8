package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aretw0/mythos"
	"github.com/aretw0/mythos/internal/platform"
	"github.com/aretw0/mythos/pkg/journal"
	"github.com/aretw0/mythos/pkg/notes"
	"github.com/aretw0/mythos/pkg/store"
)

var (
	verbose    bool
	configPath string
	dataPath   string
	backend    string
)

// app holds what PersistentPreRunE prepared for the subcommands.
var app struct {
	logger   *slog.Logger
	config   mythos.Config
	store    *store.Store
	journal  *journal.Service
	notes    *notes.Service
	debounce time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "mythos",
	Short: "A journal and categorised note store backed by a key-value backend",
	Long: `Mythos keeps a reflective journal (one entry per learned topic, five
questions, a goal and a weekly review) and six-panel Markdown notes grouped in
categories. Data lives in a directory of JSON files, SQLite or PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		app.config = cfg

		level, err := platform.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		app.logger = newLogger(level)
		slog.SetDefault(app.logger)

		if !needsStore(cmd) {
			return nil
		}
		return openStore(cmd.Context(), cfg, root)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		st := app.store
		if st == nil {
			return nil
		}
		app.store = nil
		return st.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fatal("Error", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to mythos.yaml (default: searched upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Data directory (default: .mythos next to mythos.yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: fs, memory, sqlite, sqlite3 or postgres")
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

// loadConfig reads --config, or the mythos.yaml of the enclosing root.
func loadConfig() (mythos.Config, string, error) {
	if configPath != "" {
		cfg, err := mythos.LoadConfig(configPath)
		return cfg, filepath.Dir(configPath), err
	}
	wd, err := os.Getwd()
	if err != nil {
		return mythos.Config{}, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := mythos.FindRoot(wd)
	if errors.Is(err, platform.ErrRootNotFound) {
		return mythos.Config{}, wd, nil
	}
	if err != nil {
		return mythos.Config{}, "", err
	}
	cfg, err := mythos.LoadConfig(filepath.Join(root, platform.ConfigFileName))
	return cfg, root, err
}

func openStore(ctx context.Context, cfg mythos.Config, root string) error {
	path := dataPath
	if path == "" {
		path = cfg.DataPath()
	}
	if path == "" {
		path = filepath.Join(root, platform.DataDirName)
	}

	opts := append(cfg.Options(),
		mythos.WithLogger(app.logger),
		mythos.WithErrorHandler(func(err error) {
			app.logger.Error("write not persisted", "error", err)
		}),
	)
	if backend != "" {
		opts = append(opts, mythos.WithAdapter(backend))
	}

	st, err := mythos.Open(ctx, path, opts...)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	app.store = st
	app.journal = mythos.NewJournal(st, journal.WithLogger(app.logger))
	app.notes = mythos.NewNotes(st, notes.WithLogger(app.logger))
	app.debounce, _ = cfg.DebounceDuration()
	app.logger.Debug("store opened", "path", path, "backend", st.State().(store.StoreState).BackendType)
	return nil
}

// needsStore reports whether cmd operates on data.
func needsStore(cmd *cobra.Command) bool {
	return cmd.Annotations["store"] != "none"
}

var noStore = map[string]string{"store": "none"}
