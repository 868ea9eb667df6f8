package main

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

var imageAlt string

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage pasted images",
}

var imageAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Store an image and print its Markdown reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		alt := imageAlt
		if alt == "" {
			alt = filepath.Base(args[0])
		}
		ref := app.notes.InsertImage(cmd.Context(), dataURL(args[0], data), alt)
		fmt.Fprintln(cmd.OutOrStdout(), ref)
		return nil
	},
}

var imageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored image ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		images := app.store.AllImages(cmd.Context())
		ids := make([]string, 0, len(images))
		for id := range images {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d bytes\n", id, len(images[id]))
		}
		return nil
	},
}

var imageGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Print the stored data of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, ok := app.store.GetImage(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("image %q not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), data)
		return nil
	},
}

var imagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete images no panel references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := app.notes.PruneImages(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d images pruned.\n", len(ids))
		return nil
	},
}

// dataURL encodes an image file the way a pasted image arrives: as a base64
// data URL with its media type.
func dataURL(name string, data []byte) string {
	typ := mime.TypeByExtension(filepath.Ext(name))
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageAddCmd, imageListCmd, imageGetCmd, imagePruneCmd)
	imageAddCmd.Flags().StringVar(&imageAlt, "alt", "", "Alt text (default: file name)")
}
