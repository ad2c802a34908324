package fusion

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"art-fusion-server/modules/common/gemini"
	"art-fusion-server/modules/common/utils"
)

// mockGenerator - ImageGenerator 테스트용 목
type mockGenerator struct {
	generateFunc func(req gemini.ImageRequest) (*gemini.GeneratedImage, error)
	calls        int
}

func (m *mockGenerator) GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.GeneratedImage, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(req)
	}
	return nil, gemini.ErrNoImage
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	return utils.EncodeDataURI("image/png", pngBytes(t, img))
}

func int64Ptr(v int64) *int64 { return &v }
