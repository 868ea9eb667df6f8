package store

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

const (
	shortIDSuffixLen = 4
	base36Digits     = "0123456789abcdefghijklmnopqrstuvwxyz"

	// maxIDAttempts bounds regeneration when a short id is already taken.
	maxIDAttempts = 16
)

// SaveImage stores an image payload under a freshly generated id and returns the id.
// The id, not the payload, is what Markdown content embeds.
func (s *Store) SaveImage(ctx context.Context, data string) string {
	s.imagesMu.Lock()
	defer s.imagesMu.Unlock()

	images := Load(ctx, s, KeyImages, map[string]string{})
	if images == nil {
		images = map[string]string{}
	}
	id := s.newImageID(images)
	images[id] = data
	s.Save(ctx, KeyImages, images)
	return id
}

// GetImage returns the payload stored under id. ok is false when absent.
func (s *Store) GetImage(ctx context.Context, id string) (string, bool) {
	images := Load(ctx, s, KeyImages, map[string]string{})
	data, ok := images[id]
	if !ok || data == "" {
		return "", false
	}
	return data, true
}

// AllImages returns the whole images map.
func (s *Store) AllImages(ctx context.Context) map[string]string {
	images := Load(ctx, s, KeyImages, map[string]string{})
	if images == nil {
		return map[string]string{}
	}
	return images
}

// DeleteImages removes the given ids from the images map and returns how many existed.
func (s *Store) DeleteImages(ctx context.Context, ids ...string) int {
	s.imagesMu.Lock()
	defer s.imagesMu.Unlock()

	images := Load(ctx, s, KeyImages, map[string]string{})
	removed := 0
	for _, id := range ids {
		if _, ok := images[id]; ok {
			delete(images, id)
			removed++
		}
	}
	if removed > 0 {
		s.Save(ctx, KeyImages, images)
	}
	return removed
}

func (s *Store) newImageID(taken map[string]string) string {
	if s.opts.imageIDs == ImageIDUUID {
		return uuid.NewString()
	}
	id := s.shortID()
	for i := 1; i < maxIDAttempts; i++ {
		if _, exists := taken[id]; !exists {
			return id
		}
		id = s.shortID()
	}
	// Out of attempts within the same millisecond: widen the suffix.
	return id + randomBase36(shortIDSuffixLen)
}

// shortID returns base36 Unix milliseconds followed by a random base36 suffix.
func (s *Store) shortID() string {
	return strconv.FormatInt(s.opts.now().UnixMilli(), 36) + randomBase36(shortIDSuffixLen)
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(base36Digits)))
	for i := range buf {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(err)
		}
		buf[i] = base36Digits[v.Int64()]
	}
	return string(buf)
}
