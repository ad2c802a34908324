package gallery

import (
	"context"
	"sync"
	"time"

	"art-fusion-server/modules/common/model"
	"art-fusion-server/modules/common/storage"
)

// memoryRepository - Repository 인메모리 구현
type memoryRepository struct {
	mu      sync.Mutex
	entries map[string]model.GalleryEntry
	order   []string
	err     error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{entries: map[string]model.GalleryEntry{}}
}

func (m *memoryRepository) InsertGalleryEntry(ctx context.Context, entry model.GalleryEntry) (*model.GalleryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	entry.CreatedAt = time.Now().Add(time.Duration(len(m.order)) * time.Second)
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
	return &entry, nil
}

func (m *memoryRepository) ListGalleryEntries(ctx context.Context, style string) ([]model.GalleryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.GalleryEntry
	for i := len(m.order) - 1; i >= 0; i-- {
		e := m.entries[m.order[i]]
		if style == "" || e.Style == style {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepository) GetGalleryEntry(ctx context.Context, id string) (*model.GalleryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *memoryRepository) UpdateGalleryDownloads(ctx context.Context, id string, downloads int) (*model.GalleryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Downloads = downloads
	m.entries[id] = e
	return &e, nil
}

type mockUploader struct {
	gotData []byte
	gotMime string
	err     error
}

func (m *mockUploader) UploadImage(ctx context.Context, data []byte, mimeType string, convert storage.Converter) (*storage.UploadedObject, error) {
	if m.err != nil {
		return nil, m.err
	}
	if convert != nil {
		converted, err := convert(data, 90)
		if err != nil {
			return nil, err
		}
		data, mimeType = converted, "image/webp"
	}
	m.gotData, m.gotMime = data, mimeType
	return &storage.UploadedObject{
		Path:      "fusion-gallery/test.webp",
		PublicURL: "https://cdn.test/fusion-gallery/test.webp",
		Size:      int64(len(data)),
		MimeType:  mimeType,
	}, nil
}
