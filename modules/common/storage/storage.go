package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/config"
	"art-fusion-server/modules/common/utils"
)

// Converter re-encodes image bytes at a quality level, e.g. to WebP.
type Converter func(data []byte, quality float32) ([]byte, error)

type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	quality    float32
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		bucket:     cfg.SupabaseStorageBucket,
		quality:    cfg.WebPQuality,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadedObject - 업로드 결과
type UploadedObject struct {
	Path      string
	PublicURL string
	Size      int64
	MimeType  string
}

// UploadImage - Supabase Storage에 이미지 업로드 (convert가 있으면 WebP 변환 후 업로드)
func (c *Client) UploadImage(ctx context.Context, imageData []byte, mimeType string, convert Converter) (*UploadedObject, error) {
	payload, contentType := imageData, mimeType
	if convert != nil {
		webpData, err := convert(imageData, c.quality)
		if err != nil {
			return nil, fmt.Errorf("failed to convert image to WebP: %w", err)
		}
		payload, contentType = webpData, "image/webp"
	}

	// 파일 경로 생성
	now := time.Now()
	fileName := fmt.Sprintf("fusion_%d_%s.%s", now.UnixMilli(), uuid.NewString()[:8], utils.ExtensionForMime(contentType))
	filePath := fmt.Sprintf("fusion-gallery/%s/%s", now.Format("2006-01"), fileName)

	log.Info().Msgf("📤 Uploading image to storage: %s (%s)", filePath, contentType)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	size := int64(len(payload))
	log.Info().Msgf("✅ Image uploaded successfully: %s (%d bytes)", filePath, size)
	return &UploadedObject{
		Path:      filePath,
		PublicURL: c.PublicURL(filePath),
		Size:      size,
		MimeType:  contentType,
	}, nil
}

// PublicURL - public 버킷 객체 URL
func (c *Client) PublicURL(filePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, filePath)
}
