package fusion

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendFuncs(t *testing.T) {
	tests := []struct {
		mode   BlendMode
		cb, cs float64
		want   float64
	}{
		{BlendNormal, 0.2, 0.7, 0.7},
		{BlendMultiply, 0.5, 0.5, 0.25},
		{BlendMultiply, 1, 0.3, 0.3},
		{BlendScreen, 0.5, 0.5, 0.75},
		{BlendScreen, 0, 0.3, 0.3},
		{BlendOverlay, 0.25, 0.5, 0.25},
		{BlendOverlay, 1, 0.3, 1},
		{BlendSoftLight, 0.5, 0.5, 0.5},
		{BlendSoftLight, 0.3, 0, 0.09},
		{BlendLighten, 0.2, 0.7, 0.7},
		{BlendDarken, 0.2, 0.7, 0.2},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.mode.fn()(tt.cb, tt.cs), 1e-9)
		})
	}
}

func TestParseBlendMode(t *testing.T) {
	m, err := ParseBlendMode("")
	require.NoError(t, err)
	assert.Equal(t, BlendNormal, m)

	m, err = ParseBlendMode("Soft-Light")
	require.NoError(t, err)
	assert.Equal(t, BlendSoftLight, m)

	_, err = ParseBlendMode("dissolve")
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestDrawBlended(t *testing.T) {
	t.Run("opaque normal replaces", func(t *testing.T) {
		dst := solid(10, 10, white)
		drawBlended(dst, solid(4, 4, red), image.Pt(3, 3), BlendNormal, 1)
		assert.Equal(t, red, dst.NRGBAAt(4, 4))
		assert.Equal(t, white, dst.NRGBAAt(0, 0))
		assert.Equal(t, white, dst.NRGBAAt(7, 7))
	})

	t.Run("multiply over white keeps source", func(t *testing.T) {
		dst := solid(4, 4, white)
		drawBlended(dst, solid(4, 4, red), image.Pt(0, 0), BlendMultiply, 1)
		assert.Equal(t, red, dst.NRGBAAt(1, 1))
	})

	t.Run("opacity mixes with backdrop", func(t *testing.T) {
		dst := solid(4, 4, white)
		drawBlended(dst, solid(4, 4, color.NRGBA{A: 255}), image.Pt(0, 0), BlendNormal, 0.5)
		got := dst.NRGBAAt(1, 1)
		assert.InDelta(t, 128, int(got.R), 1)
		assert.Equal(t, uint8(255), got.A)
	})

	t.Run("zero opacity is a no-op", func(t *testing.T) {
		dst := solid(4, 4, white)
		drawBlended(dst, solid(4, 4, red), image.Pt(0, 0), BlendNormal, 0)
		assert.Equal(t, white, dst.NRGBAAt(1, 1))
	})

	t.Run("partially and fully out of bounds", func(t *testing.T) {
		dst := solid(10, 10, white)
		require.NotPanics(t, func() {
			drawBlended(dst, solid(6, 6, red), image.Pt(-3, 7), BlendNormal, 1)
			drawBlended(dst, solid(6, 6, red), image.Pt(50, 50), BlendNormal, 1)
			drawBlended(dst, solid(6, 6, red), image.Pt(-50, -50), BlendNormal, 1)
		})
		assert.Equal(t, red, dst.NRGBAAt(0, 9))
		assert.Equal(t, white, dst.NRGBAAt(5, 5))
	})

	t.Run("transparent source pixels are skipped", func(t *testing.T) {
		dst := solid(4, 4, white)
		drawBlended(dst, solid(4, 4, color.NRGBA{R: 255}), image.Pt(0, 0), BlendNormal, 1)
		assert.Equal(t, white, dst.NRGBAAt(1, 1))
	})
}
