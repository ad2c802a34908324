package fusion

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Filter mirrors the CSS filter functions the styles are expressed in.
// Brightness, Contrast and Saturation are multiplicative factors where 1 is
// unchanged; a zero factor is treated as unset. HueRotate is in degrees, Sepia
// is an amount in [0,1] and Blur is a gaussian sigma in pixels. The zero value
// is the identity.
type Filter struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	HueRotate  float64
	Sepia      float64
	Blur       float64
}

var IdentityFilter = Filter{}

func (f Filter) IsIdentity() bool {
	return len(f.matrices()) == 0 && f.Blur <= 0
}

// colorMatrix is a 3x4 affine transform on normalised RGB.
type colorMatrix [3][4]float64

func (m colorMatrix) apply(r, g, b float64) (float64, float64, float64) {
	return clamp01(m[0][0]*r + m[0][1]*g + m[0][2]*b + m[0][3]),
		clamp01(m[1][0]*r + m[1][1]*g + m[1][2]*b + m[1][3]),
		clamp01(m[2][0]*r + m[2][1]*g + m[2][2]*b + m[2][3])
}

// matrices returns the non-identity steps in CSS application order.
func (f Filter) matrices() []colorMatrix {
	var ms []colorMatrix
	if isSet(f.Brightness) {
		ms = append(ms, brightnessMatrix(f.Brightness))
	}
	if isSet(f.Contrast) {
		ms = append(ms, contrastMatrix(f.Contrast))
	}
	if isSet(f.Saturation) {
		ms = append(ms, saturateMatrix(f.Saturation))
	}
	if f.HueRotate != 0 && math.Mod(f.HueRotate, 360) != 0 {
		ms = append(ms, hueRotateMatrix(f.HueRotate))
	}
	if f.Sepia > 0 {
		ms = append(ms, sepiaMatrix(math.Min(f.Sepia, 1)))
	}
	return ms
}

func isSet(factor float64) bool {
	return factor != 0 && factor != 1
}

// applyFilter returns a filtered copy of img. img itself is never modified.
func applyFilter(img image.Image, f Filter) *image.NRGBA {
	out := imaging.Clone(img)

	if ms := f.matrices(); len(ms) > 0 {
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			r := float64(c.R) / 255
			g := float64(c.G) / 255
			b := float64(c.B) / 255
			for _, m := range ms {
				r, g, b = m.apply(r, g, b)
			}
			return color.NRGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: c.A}
		})
	}

	if f.Blur > 0 {
		out = imaging.Blur(out, f.Blur)
	}
	return out
}

func brightnessMatrix(b float64) colorMatrix {
	return colorMatrix{
		{b, 0, 0, 0},
		{0, b, 0, 0},
		{0, 0, b, 0},
	}
}

func contrastMatrix(c float64) colorMatrix {
	o := 0.5 - 0.5*c
	return colorMatrix{
		{c, 0, 0, o},
		{0, c, 0, o},
		{0, 0, c, o},
	}
}

func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0},
	}
}

func hueRotateMatrix(deg float64) colorMatrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return colorMatrix{
		{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0},
		{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0},
		{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0},
	}
}

func sepiaMatrix(amount float64) colorMatrix {
	k := 1 - amount
	return colorMatrix{
		{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k, 0},
		{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k, 0},
		{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k, 0},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
