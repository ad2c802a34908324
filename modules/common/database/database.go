package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"art-fusion-server/modules/common/config"
	"art-fusion-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
	table    string
}

// NewClient - Database 클라이언트 생성
func NewClient(cfg *config.Config) (*Client, error) {
	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	log.Info().Msgf("✅ [Database] Supabase client ready (table: %s)", cfg.GalleryTable)
	return &Client{
		supabase: supabaseClient,
		table:    cfg.GalleryTable,
	}, nil
}

// InsertGalleryEntry - 갤러리 레코드 생성
func (c *Client) InsertGalleryEntry(ctx context.Context, entry model.GalleryEntry) (*model.GalleryEntry, error) {
	log.Info().Msgf("📝 Inserting gallery entry: %s (%s)", entry.Title, entry.Style)

	insertData := map[string]interface{}{
		"id":          entry.ID,
		"title":       entry.Title,
		"description": entry.Description,
		"style":       entry.Style,
		"image_url":   entry.ImageURL,
		"downloads":   entry.Downloads,
	}

	data, _, err := c.supabase.From(c.table).
		Insert(insertData, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert gallery entry: %w", err)
	}

	return firstEntry(data, entry.ID)
}

// ListGalleryEntries - 최신순 조회 (style 지정 시 필터)
func (c *Client) ListGalleryEntries(ctx context.Context, style string) ([]model.GalleryEntry, error) {
	query := c.supabase.From(c.table).Select("*", "exact", false)
	if style != "" {
		query = query.Eq("style", style)
	}

	var entries []model.GalleryEntry
	if _, err := query.Order("created_at", &postgrest.OrderOpts{Ascending: false}).ExecuteTo(&entries); err != nil {
		return nil, fmt.Errorf("failed to query gallery: %w", err)
	}

	log.Debug().Msgf("🔍 Gallery entries fetched: %d (style: %q)", len(entries), style)
	return entries, nil
}

// GetGalleryEntry - 단건 조회
func (c *Client) GetGalleryEntry(ctx context.Context, id string) (*model.GalleryEntry, error) {
	data, _, err := c.supabase.From(c.table).
		Select("*", "exact", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery entry: %w", err)
	}
	return firstEntry(data, id)
}

// UpdateGalleryDownloads - downloads 카운터 갱신
func (c *Client) UpdateGalleryDownloads(ctx context.Context, id string, downloads int) (*model.GalleryEntry, error) {
	data, _, err := c.supabase.From(c.table).
		Update(map[string]interface{}{"downloads": downloads}, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update downloads: %w", err)
	}
	return firstEntry(data, id)
}

func firstEntry(data []byte, id string) (*model.GalleryEntry, error) {
	var entries []model.GalleryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &entries[0], nil
}
