package fusion

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/utils"
)

const (
	lightingOpacity = 0.85
	outputMimeType  = "image/jpeg"
)

// errCanvasUnavailable means no drawing surface could be allocated for the
// background; callers hand back the background unmodified.
var errCanvasUnavailable = errors.New("canvas unavailable")

type Compositor struct {
	quality   int
	maxPixels int
}

// Composition is an encoded local composite.
type Composition struct {
	Data      []byte
	MimeType  string
	Width     int
	Height    int
	Placement Placement
}

func NewCompositor(jpegQuality, maxCanvasPixels int) *Compositor {
	return &Compositor{quality: jpegQuality, maxPixels: maxCanvasPixels}
}

// CanAllocate reports whether a canvas of w x h fits the pixel budget.
func (c *Compositor) CanAllocate(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return c.maxPixels <= 0 || w*h <= c.maxPixels
}

// Render draws the composite onto a new canvas sized to the background.
func (c *Compositor) Render(background, person image.Image, opts Options, rng *rand.Rand) (*image.NRGBA, Placement, error) {
	bounds := background.Bounds()
	if !c.CanAllocate(bounds.Dx(), bounds.Dy()) {
		return nil, Placement{}, fmt.Errorf("%w: %dx%d", errCanvasUnavailable, bounds.Dx(), bounds.Dy())
	}

	// 1-2. canvas + background at origin
	canvas := imaging.Clone(background)
	style := LookupStyle(opts.Style)

	// 3. style pre-pass over the background
	if !style.Filter.IsIdentity() || style.Blend != BlendNormal {
		pre := PaintOp{Filter: style.Filter, Blend: style.Blend, Opacity: 1}
		drawImage(canvas, background, canvas.Bounds(), pre)
	}

	// 4. placement
	placement := ComputePlacement(person.Bounds(), canvas.Bounds(), opts, rng)

	// 5-7. overlay paint op
	op := NormalPaint
	if opts.AddShadows {
		op = op.WithShadow(DropShadow)
	}
	if opts.PreserveLighting {
		op = op.WithBlend(BlendMultiply, lightingOpacity)
	}

	// 8. overlay
	drawImage(canvas, person, placement.Rect(), op)

	// 10. wash
	drawWash(canvas, style.Wash)

	return canvas, placement, nil
}

// Compose renders and encodes the composite as JPEG.
func (c *Compositor) Compose(background, person image.Image, opts Options, rng *rand.Rand) (*Composition, error) {
	canvas, placement, err := c.Render(background, person, opts, rng)
	if err != nil {
		return nil, err
	}

	data, err := utils.EncodeJPEG(canvas, c.quality)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("🖼️  [Fusion] Local composite: %dx%d, style=%s, anchor=%s, scale=%.2f, %d bytes",
		canvas.Bounds().Dx(), canvas.Bounds().Dy(), opts.Style, placement.Anchor, placement.Scale, len(data))

	return &Composition{
		Data:      data,
		MimeType:  outputMimeType,
		Width:     canvas.Bounds().Dx(),
		Height:    canvas.Bounds().Dy(),
		Placement: placement,
	}, nil
}
