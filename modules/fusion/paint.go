package fusion

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Shadow is a soft drop shadow rendered behind a draw, derived from the
// source's alpha mask.
type Shadow struct {
	Blur    float64
	OffsetX int
	OffsetY int
	Color   color.NRGBA
}

// DropShadow is the shadow used for the person overlay.
var DropShadow = Shadow{
	Blur:    25,
	OffsetX: 15,
	OffsetY: 15,
	Color:   color.NRGBA{A: alpha(0.40)},
}

// PaintOp is the complete drawing state for one draw call. Values are never
// mutated; every draw gets its own op.
type PaintOp struct {
	Filter  Filter
	Blend   BlendMode
	Opacity float64
	Shadow  *Shadow
}

var NormalPaint = PaintOp{Blend: BlendNormal, Opacity: 1}

func (op PaintOp) WithShadow(s Shadow) PaintOp {
	op.Shadow = &s
	return op
}

func (op PaintOp) WithBlend(mode BlendMode, opacity float64) PaintOp {
	op.Blend = mode
	op.Opacity = opacity
	return op
}

// drawImage scales src into rect and paints it onto dst under op.
func drawImage(dst *image.NRGBA, src image.Image, rect image.Rectangle, op PaintOp) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return
	}

	layer := src
	if sb := src.Bounds(); sb.Dx() != rect.Dx() || sb.Dy() != rect.Dy() {
		layer = imaging.Resize(src, rect.Dx(), rect.Dy(), imaging.Lanczos)
	}
	if !op.Filter.IsIdentity() {
		layer = applyFilter(layer, op.Filter)
	}

	if op.Shadow != nil {
		mask, pad := shadowMask(layer, *op.Shadow)
		at := rect.Min.Add(image.Pt(op.Shadow.OffsetX-pad, op.Shadow.OffsetY-pad))
		drawBlended(dst, mask, at, op.Blend, op.Opacity)
	}

	drawBlended(dst, layer, rect.Min, op.Blend, op.Opacity)
}

// shadowMask paints src's alpha in the shadow colour on a padded layer and
// blurs it. The returned pad is the layer's margin on each side.
func shadowMask(src image.Image, s Shadow) (*image.NRGBA, int) {
	// canvas shadowBlur is twice the gaussian sigma
	sigma := s.Blur / 2
	pad := int(math.Ceil(sigma * 3))

	n := toNRGBA(src)
	b := n.Bounds()
	mask := imaging.New(b.Dx()+2*pad, b.Dy()+2*pad, color.NRGBA{})

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := n.Pix[n.PixOffset(b.Min.X+x, b.Min.Y+y)+3]
			if a == 0 {
				continue
			}
			i := mask.PixOffset(x+pad, y+pad)
			mask.Pix[i+0] = s.Color.R
			mask.Pix[i+1] = s.Color.G
			mask.Pix[i+2] = s.Color.B
			mask.Pix[i+3] = uint8(uint16(a) * uint16(s.Color.A) / 255)
		}
	}

	if sigma > 0 {
		mask = imaging.Blur(mask, sigma)
	}
	return mask, pad
}

// drawWash lays a full-canvas tint over dst with normal blending.
func drawWash(dst *image.NRGBA, w Wash) {
	b := dst.Bounds()
	switch w.Kind {
	case WashSolid:
		drawBlended(dst, imaging.New(b.Dx(), b.Dy(), w.From), b.Min, BlendNormal, 1)
	case WashHorizontalGradient:
		layer := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		span := float64(b.Dx() - 1)
		for x := 0; x < b.Dx(); x++ {
			t := 0.0
			if span > 0 {
				t = float64(x) / span
			}
			c := lerpColor(w.From, w.To, t)
			for y := 0; y < b.Dy(); y++ {
				layer.SetNRGBA(x, y, c)
			}
		}
		drawBlended(dst, layer, b.Min, BlendNormal, 1)
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
