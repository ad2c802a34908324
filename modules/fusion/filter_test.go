package fusion

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pixelAt(t *testing.T, f Filter, c color.NRGBA) color.NRGBA {
	t.Helper()
	return applyFilter(solid(4, 4, c), f).NRGBAAt(1, 1)
}

func TestFilter_IsIdentity(t *testing.T) {
	assert.True(t, IdentityFilter.IsIdentity())
	assert.True(t, Filter{Brightness: 1, Contrast: 1, Saturation: 1, HueRotate: 360}.IsIdentity())
	assert.False(t, Filter{Brightness: 1.1}.IsIdentity())
	assert.False(t, Filter{Blur: 1}.IsIdentity())
}

func TestApplyFilter(t *testing.T) {
	mid := color.NRGBA{R: 100, G: 100, B: 100, A: 255}

	t.Run("identity copies pixels", func(t *testing.T) {
		src := solid(4, 4, red)
		out := applyFilter(src, IdentityFilter)
		assert.Equal(t, red, out.NRGBAAt(2, 2))
		assert.NotSame(t, src, out)
	})

	t.Run("brightness multiplies", func(t *testing.T) {
		assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, pixelAt(t, Filter{Brightness: 2}, mid))
	})

	t.Run("brightness clamps", func(t *testing.T) {
		assert.Equal(t, white, pixelAt(t, Filter{Brightness: 3}, mid))
	})

	t.Run("contrast pivots on mid grey", func(t *testing.T) {
		grey := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
		got := pixelAt(t, Filter{Contrast: 1.4}, grey)
		assert.InDelta(t, 128, int(got.R), 1)
		darker := pixelAt(t, Filter{Contrast: 1.4}, mid)
		assert.Less(t, darker.R, mid.R)
	})

	t.Run("saturation leaves greys alone", func(t *testing.T) {
		got := pixelAt(t, Filter{Saturation: 1.8}, mid)
		assert.InDelta(t, 100, int(got.R), 1)
		assert.InDelta(t, 100, int(got.G), 1)
		assert.InDelta(t, 100, int(got.B), 1)
	})

	t.Run("desaturation pulls channels together", func(t *testing.T) {
		got := pixelAt(t, Filter{Saturation: 0.5}, red)
		assert.Less(t, got.R, uint8(255))
		assert.Greater(t, got.G, uint8(0))
	})

	t.Run("hue rotation moves red towards another hue", func(t *testing.T) {
		got := pixelAt(t, Filter{HueRotate: 120}, red)
		assert.Greater(t, got.G, got.R)
	})

	t.Run("sepia warms grey", func(t *testing.T) {
		got := pixelAt(t, Filter{Sepia: 1}, mid)
		assert.Greater(t, got.R, got.B)
	})

	t.Run("alpha is preserved", func(t *testing.T) {
		half := color.NRGBA{R: 10, G: 20, B: 30, A: 128}
		assert.Equal(t, uint8(128), pixelAt(t, Filter{Brightness: 2}, half).A)
	})
}
