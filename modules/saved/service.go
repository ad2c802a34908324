package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisutil "art-fusion-server/modules/common/redis"
	"art-fusion-server/modules/common/utils"
)

var (
	ErrNotFound     = errors.New("saved image not found")
	ErrInvalidImage = errors.New("image must be a data URI")
)

// Store keeps each owner's saved images as a Redis list in insertion order.
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

// Save appends image to the owner's list.
func (s *Store) Save(ctx context.Context, owner, image string) (SavedImage, error) {
	if !utils.IsDataURI(image) {
		return SavedImage{}, ErrInvalidImage
	}

	rec := SavedImage{
		ID:        uuid.NewString(),
		Image:     image,
		Timestamp: s.now().UnixMilli(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to marshal saved image: %w", err)
	}

	if err := s.rdb.RPush(ctx, redisutil.SavedKey(owner), raw).Err(); err != nil {
		return SavedImage{}, fmt.Errorf("failed to save image: %w", err)
	}

	log.Info().Msgf("💾 [Saved] %s saved image %s (%d chars)", owner, rec.ID, len(image))
	return rec, nil
}

// List returns the owner's images oldest first. Corrupt entries are skipped.
func (s *Store) List(ctx context.Context, owner string) ([]SavedImage, error) {
	raws, err := s.rdb.LRange(ctx, redisutil.SavedKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved images: %w", err)
	}

	images := make([]SavedImage, 0, len(raws))
	for _, raw := range raws {
		var rec SavedImage
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			log.Warn().Msgf("⚠️  [Saved] Skipping corrupt entry for %s: %v", owner, err)
			continue
		}
		images = append(images, rec)
	}
	return images, nil
}

// Delete removes the image with id from the owner's list.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	key := redisutil.SavedKey(owner)
	raws, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read saved images: %w", err)
	}

	for _, raw := range raws {
		var rec SavedImage
		if json.Unmarshal([]byte(raw), &rec) != nil || rec.ID != id {
			continue
		}
		removed, err := s.rdb.LRem(ctx, key, 1, raw).Result()
		if err != nil {
			return fmt.Errorf("failed to delete saved image: %w", err)
		}
		if removed == 0 {
			break
		}
		log.Info().Msgf("🗑️  [Saved] %s deleted image %s", owner, id)
		return nil
	}
	return ErrNotFound
}
