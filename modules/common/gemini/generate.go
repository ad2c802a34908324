package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

var (
	ErrNoImage = errors.New("gemini response contained no image")
	ErrBlocked = errors.New("gemini generation stopped abnormally")
)

// InlineImage - 요청에 포함할 이미지
type InlineImage struct {
	MimeType string
	Data     []byte
}

// ImageRequest - 텍스트 지시문 + 참조 이미지
type ImageRequest struct {
	Prompt      string
	Images      []InlineImage
	AspectRatio string
	Seed        *int64
}

// GeneratedImage - 응답에서 추출한 첫 번째 이미지
type GeneratedImage struct {
	MimeType string
	Data     []byte
}

// GenerateImage makes exactly one GenerateContent call and returns the first
// inline image found in any candidate.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
	}

	log.Info().Msgf("🎨 [Gemini] Generating image - model: %s, ratio: %s, images: %d, prompt: %s",
		c.model, req.AspectRatio, len(req.Images), truncateString(req.Prompt, 50))

	result, err := c.models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		generationConfig(req),
	)
	if err != nil {
		if IsRateLimited(err) {
			log.Warn().Msgf("⚠️  [Gemini] Rate limited (429): %v", err)
		} else {
			log.Error().Msgf("❌ [Gemini] API error: %v", err)
		}
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	return extractImage(result)
}

func generationConfig(req ImageRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](0.4),
		TopK:               genai.Ptr[float32](32),
		TopP:               genai.Ptr[float32](1),
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		Seed:               seedToPtrInt32(req.Seed),
	}
	if req.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	return cfg
}

// extractImage - 응답에서 이미지 추출
func extractImage(result *genai.GenerateContentResponse) (*GeneratedImage, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, ErrNoImage
	}

	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				log.Info().Msgf("✅ [Gemini] Image generated: %d bytes (%s)", len(part.InlineData.Data), mimeType)
				return &GeneratedImage{MimeType: mimeType, Data: part.InlineData.Data}, nil
			}
		}
	}

	// 안전 필터 등으로 차단된 경우
	if first := result.Candidates[0]; first != nil &&
		first.FinishReason != genai.FinishReasonUnspecified &&
		first.FinishReason != genai.FinishReasonStop &&
		first.FinishReason != "" {
		return nil, fmt.Errorf("%w (finish reason: %s)", ErrBlocked, first.FinishReason)
	}

	return nil, ErrNoImage
}

// IsRateLimited - 429 Rate Limit 에러인지 확인
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "resource_exhausted")
}

// AspectRatioFor picks the closest supported aspect ratio for the given size.
func AspectRatioFor(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	if width > height {
		if float64(width)/float64(height) >= 1.7 {
			return "16:9"
		}
		return "4:3"
	} else if height > width {
		if float64(height)/float64(width) >= 1.7 {
			return "9:16"
		}
		return "3:4"
	}
	return "1:1"
}

func seedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	val := int32(*seed)
	return &val
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
