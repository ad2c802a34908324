package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF 디코더 등록
	_ "image/jpeg" // JPEG 디코더 등록
	_ "image/png"  // PNG 디코더 등록

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp" // WebP 디코더 등록 (pure Go)
)

var ErrImageTooLarge = errors.New("image exceeds pixel budget")

// DecodeImage - 이미지 디코드 (PNG, JPEG, GIF, WebP 자동 감지)
// maxPixels > 0 이면 헤더 단계에서 크기를 먼저 확인한다.
func DecodeImage(data []byte, maxPixels int) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	log.Debug().Msgf("🔍 Decoded %s image: %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, format, nil
}

// EncodeJPEG - JPEG 인코딩 (quality 1..100)
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
