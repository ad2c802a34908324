package fusion

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

type BlendMode string

const (
	BlendNormal    BlendMode = "normal"
	BlendMultiply  BlendMode = "multiply"
	BlendScreen    BlendMode = "screen"
	BlendOverlay   BlendMode = "overlay"
	BlendSoftLight BlendMode = "soft-light"
	BlendLighten   BlendMode = "lighten"
	BlendDarken    BlendMode = "darken"
)

func ParseBlendMode(s string) (BlendMode, error) {
	m := BlendMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return BlendNormal, nil
	}
	if _, ok := blendFuncs[m]; !ok && m != BlendNormal {
		return "", fmt.Errorf("%w: unknown blend mode %q", ErrInvalidOptions, s)
	}
	return m, nil
}

// blend functions take backdrop then source, both normalised.
var blendFuncs = map[BlendMode]func(cb, cs float64) float64{
	BlendMultiply:  blendMultiply,
	BlendScreen:    blendScreen,
	BlendOverlay:   blendOverlay,
	BlendSoftLight: blendSoftLight,
	BlendLighten:   math.Max,
	BlendDarken:    math.Min,
}

func blendNormal(cb, cs float64) float64   { return cs }
func blendMultiply(cb, cs float64) float64 { return cb * cs }
func blendScreen(cb, cs float64) float64   { return cb + cs - cb*cs }

func blendOverlay(cb, cs float64) float64 {
	if cb <= 0.5 {
		return blendMultiply(cs, 2*cb)
	}
	return blendScreen(cs, 2*cb-1)
}

func blendSoftLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

func (m BlendMode) fn() func(cb, cs float64) float64 {
	if f, ok := blendFuncs[m]; ok {
		return f
	}
	return blendNormal
}

// drawBlended composites src onto dst with its top-left at off, in place.
// Only the overlap of the two rectangles is touched; src may lie partly or
// wholly outside dst.
func drawBlended(dst *image.NRGBA, src image.Image, off image.Point, mode BlendMode, opacity float64) {
	if dst == nil || src == nil || opacity <= 0 {
		return
	}
	s := toNRGBA(src)
	sb := s.Bounds()

	area := image.Rect(off.X, off.Y, off.X+sb.Dx(), off.Y+sb.Dy()).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	blend := mode.fn()
	opacity = clamp01(opacity)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			si := s.PixOffset(sb.Min.X+x-off.X, sb.Min.Y+y-off.Y)
			di := dst.PixOffset(x, y)

			as := float64(s.Pix[si+3]) / 255 * opacity
			if as == 0 {
				continue
			}
			ab := float64(dst.Pix[di+3]) / 255
			ao := as + ab*(1-as)

			for c := 0; c < 3; c++ {
				cs := float64(s.Pix[si+c]) / 255
				cb := float64(dst.Pix[di+c]) / 255
				mixed := (1-ab)*cs + ab*blend(cb, cs)
				co := as*mixed + ab*cb*(1-as)
				dst.Pix[di+c] = toByte(co / ao)
			}
			dst.Pix[di+3] = toByte(ao)
		}
	}
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
