package notes

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/mythos/pkg/store"
)

// imageScheme prefixes image references inside Markdown.
const imageScheme = "img:"

// MissingImage replaces references to images that are not stored.
const MissingImage = "#missing-image"

var imageRef = regexp.MustCompile(`img:([0-9A-Za-z_-]+)`)

// InsertImage stores data and returns the Markdown that embeds it.
func (s *Service) InsertImage(ctx context.Context, data, alt string) string {
	id := s.store.SaveImage(ctx, data)
	alt = strings.NewReplacer("[", "", "]", "").Replace(alt)
	return "![" + alt + "](" + imageScheme + id + ")"
}

// ImageRefs returns the distinct image ids referenced by markdown, in order
// of first appearance.
func ImageRefs(markdown string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range imageRef.FindAllStringSubmatch(markdown, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// ResolveImages replaces every img:{id} reference with the stored payload.
// References to missing images become MissingImage.
func (s *Service) ResolveImages(ctx context.Context, markdown string) string {
	if !strings.Contains(markdown, imageScheme) {
		return markdown
	}
	images := s.store.AllImages(ctx)
	return imageRef.ReplaceAllStringFunc(markdown, func(ref string) string {
		if data := images[strings.TrimPrefix(ref, imageScheme)]; data != "" {
			return data
		}
		return MissingImage
	})
}

// PruneImages deletes stored images that no panel references and returns
// their ids. It deletes nothing when any panel cannot be read, since an
// unreadable panel may hold references.
func (s *Service) PruneImages(ctx context.Context) ([]string, error) {
	keys, err := s.store.ScanContentKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("image prune aborted: %w", err)
	}

	used := make(map[string]bool)
	for _, ck := range keys {
		md, _, err := store.Read[string](ctx, s.store, ck.String())
		if err != nil {
			return nil, fmt.Errorf("image prune aborted: %w", err)
		}
		for _, id := range ImageRefs(md) {
			used[id] = true
		}
	}

	var unused []string
	for id := range s.store.AllImages(ctx) {
		if !used[id] {
			unused = append(unused, id)
		}
	}
	if len(unused) == 0 {
		return nil, nil
	}
	sort.Strings(unused)
	s.store.DeleteImages(ctx, unused...)
	s.debug("unreferenced images pruned", "count", len(unused))
	return unused, nil
}
