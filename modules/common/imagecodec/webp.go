// Package imagecodec holds the cgo-backed WebP encoder. It links libwebp, so it
// is kept apart from the pure-Go image helpers.
package imagecodec

import (
	"bytes"
	"fmt"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/utils"
)

// ConvertToWebP - 이미지 바이너리(JPEG/PNG/WebP)를 손실 WebP로 변환
func ConvertToWebP(imageData []byte, quality float32) ([]byte, error) {
	log.Debug().Msgf("🔄 Converting image to WebP (quality: %.1f)", quality)

	img, format, err := utils.DecodeImage(imageData, 0)
	if err != nil {
		return nil, err
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Info().Msgf("✅ %s converted to WebP: %d bytes → %d bytes (%.1f%% reduction)",
		format, len(imageData), len(webpData),
		float64(len(imageData)-len(webpData))/float64(len(imageData))*100)

	return webpData, nil
}
