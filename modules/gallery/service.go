package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/database"
	"art-fusion-server/modules/common/model"
	"art-fusion-server/modules/common/storage"
	"art-fusion-server/modules/common/utils"
	"art-fusion-server/modules/fusion"
)

const maxTitleLength = 120

var (
	ErrInvalidEntry = errors.New("invalid gallery entry")
	ErrNotFound     = database.ErrNotFound
)

// Repository is the gallery table.
type Repository interface {
	InsertGalleryEntry(ctx context.Context, entry model.GalleryEntry) (*model.GalleryEntry, error)
	ListGalleryEntries(ctx context.Context, style string) ([]model.GalleryEntry, error)
	GetGalleryEntry(ctx context.Context, id string) (*model.GalleryEntry, error)
	UpdateGalleryDownloads(ctx context.Context, id string, downloads int) (*model.GalleryEntry, error)
}

// Uploader stores the published image and returns where it lives.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, mimeType string, convert storage.Converter) (*storage.UploadedObject, error)
}

type Service struct {
	repo     Repository
	uploader Uploader
	convert  storage.Converter
}

// NewService - convert가 nil이면 원본 포맷 그대로 업로드
func NewService(repo Repository, uploader Uploader, convert storage.Converter) *Service {
	return &Service{repo: repo, uploader: uploader, convert: convert}
}

// Publish uploads the image and inserts a gallery row pointing at it.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (*model.GalleryEntry, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidEntry, maxTitleLength)
	}
	style, err := fusion.ParseStyle(req.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	uri, err := utils.ParseDataURI(req.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	obj, err := s.uploader.UploadImage(ctx, uri.Data, uri.MimeType, s.convert)
	if err != nil {
		return nil, err
	}

	entry := model.GalleryEntry{
		ID:       uuid.NewString(),
		Title:    title,
		Style:    string(style),
		ImageURL: obj.PublicURL,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		entry.Description = &desc
	}

	saved, err := s.repo.InsertGalleryEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("🖼️  [Gallery] Published %s: %q (%s)", saved.ID, saved.Title, saved.Style)
	return saved, nil
}

// List returns entries newest first, filtered by style when given.
func (s *Service) List(ctx context.Context, style string) ([]model.GalleryEntry, error) {
	if style != "" {
		parsed, err := fusion.ParseStyle(style)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
		style = string(parsed)
	}
	entries, err := s.repo.ListGalleryEntries(ctx, style)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.GalleryEntry{}
	}
	return entries, nil
}

// RecordDownload increments the entry's download counter.
// The increment is a read-modify-write, so concurrent downloads may collapse.
func (s *Service) RecordDownload(ctx context.Context, id string) (*model.GalleryEntry, error) {
	entry, err := s.repo.GetGalleryEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateGalleryDownloads(ctx, id, entry.Downloads+1)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("⬇️  [Gallery] %s downloads: %d", id, updated.Downloads)
	return updated, nil
}
