package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/mythos"
	"github.com/aretw0/mythos/pkg/journal"
	"github.com/aretw0/mythos/pkg/notes"
)

var exportOutput string

// Snapshot is the whole content of a store, as written by export.
type Snapshot struct {
	Version    string            `json:"version" jsonschema:"description=mythos version that wrote the snapshot"`
	ExportedAt time.Time         `json:"exportedAt"`
	Goal       int               `json:"goal" jsonschema:"minimum=1"`
	Entries    []journal.Entry   `json:"entries"`
	Categories []notes.Category  `json:"categories"`
	Pages      []notes.Page      `json:"pages"`
	Panels     []PanelContent    `json:"panels"`
	Images     map[string]string `json:"images" jsonschema:"description=image id to data URL"`
}

// PanelContent is the Markdown of one panel of one page.
type PanelContent struct {
	PageID   string `json:"pageId"`
	PanelID  string `json:"panelId"`
	Markdown string `json:"markdown"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every entry, note and image as one JSON document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := buildSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		if exportOutput == "" || exportOutput == "-" {
			return writeJSON(cmd.OutOrStdout(), snap)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		if err := writeJSON(f, snap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		app.logger.Info("exported", "path", exportOutput, "entries", len(snap.Entries), "pages", len(snap.Pages))
		return nil
	},
}

// buildSnapshot loads the independent parts of the store concurrently.
func buildSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Version: strings.TrimSpace(mythos.Version), ExportedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Entries = app.journal.List(ctx)
		snap.Goal = app.journal.Goal(ctx)
		return ctx.Err()
	})
	g.Go(func() error {
		snap.Categories = app.notes.ListCategories(ctx)
		return ctx.Err()
	})
	g.Go(func() error {
		snap.Images = app.store.AllImages(ctx)
		return ctx.Err()
	})
	g.Go(func() error {
		snap.Pages = app.notes.Pages(ctx, "")
		panels, err := loadPanels(ctx, snap.Pages)
		snap.Panels = panels
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export interrupted: %w", err)
	}
	return snap, nil
}

// loadPanels reads the non-empty panels of pages, a few pages at a time.
func loadPanels(ctx context.Context, pages []notes.Page) ([]PanelContent, error) {
	var (
		mu  sync.Mutex
		out []PanelContent
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, p := range pages {
		g.Go(func() error {
			for _, panel := range notes.Panels() {
				md, err := app.notes.ReadPanel(ctx, p.ID, panel.ID)
				if err != nil {
					return err
				}
				if md == "" {
					continue
				}
				mu.Lock()
				out = append(out, PanelContent{PageID: p.ID, PanelID: panel.ID, Markdown: md})
				mu.Unlock()
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Panels of one page are appended in order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].PageID < out[j].PageID })
	return out, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}
