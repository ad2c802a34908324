package fusion

import (
	"image"
	"math"
	"math/rand"
	"regexp"
)

type Anchor string

const (
	AnchorNone   Anchor = "none"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
	AnchorCenter Anchor = "center"
)

const (
	minScale        = 0.2
	verticalAnchorY = 0.6
)

// keyword routes in priority order; the first pattern that matches wins.
var anchorPatterns = []struct {
	anchor Anchor
	x      float64
	re     *regexp.Regexp
}{
	{AnchorLeft, 0.2, regexp.MustCompile(`(?i)\bleft\b`)},
	{AnchorRight, 0.8, regexp.MustCompile(`(?i)\bright\b`)},
	{AnchorCenter, 0.5, regexp.MustCompile(`(?i)\b(center|middle)\b`)},
}

// Placement is where and how large the overlay is drawn on the canvas.
type Placement struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Scale   float64 `json:"scale"`
	Anchor  Anchor  `json:"anchor"`
	JitterX float64 `json:"jitter_x"`
	JitterY float64 `json:"jitter_y"`
}

func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Center returns the overlay's centre point in canvas coordinates.
func (p Placement) Center() (float64, float64) {
	return float64(p.X) + float64(p.Width)/2, float64(p.Y) + float64(p.Height)/2
}

// ScaleFactor maps integration strength [0,100] linearly onto [0.2,1.0].
func ScaleFactor(strength float64) float64 {
	return minScale + (1-minScale)*strength/100
}

// MatchAnchor scans instructions for whole-word positional keywords.
func MatchAnchor(instructions string) (Anchor, float64) {
	for _, p := range anchorPatterns {
		if p.re.MatchString(instructions) {
			return p.anchor, p.x
		}
	}
	return AnchorNone, 0.5
}

// ComputePlacement sizes the overlay and positions it on the canvas. Without a
// keyword the overlay is centred and both axes get uniform jitter in
// [-detail, +detail] pixels drawn from rng. Results are not clamped to the
// canvas.
func ComputePlacement(overlay, canvas image.Rectangle, opts Options, rng *rand.Rand) Placement {
	scale := ScaleFactor(opts.IntegrationStrength)
	w := float64(overlay.Dx()) * scale
	h := float64(overlay.Dy()) * scale

	anchor, fx := MatchAnchor(opts.Instructions)

	var jx, jy float64
	if anchor == AnchorNone && rng != nil {
		jx = jitter(rng, opts.DetailLevel)
		jy = jitter(rng, opts.DetailLevel)
	}

	x := float64(canvas.Dx())*fx - w/2 + jx
	y := float64(canvas.Dy())*verticalAnchorY - h/2 + jy

	return Placement{
		X:       canvas.Min.X + int(math.Round(x)),
		Y:       canvas.Min.Y + int(math.Round(y)),
		Width:   max(1, int(math.Round(w))),
		Height:  max(1, int(math.Round(h))),
		Scale:   scale,
		Anchor:  anchor,
		JitterX: jx,
		JitterY: jy,
	}
}

func jitter(rng *rand.Rand, amplitude float64) float64 {
	return (rng.Float64()*2 - 1) * amplitude
}
