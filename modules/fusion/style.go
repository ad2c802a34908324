package fusion

import (
	"fmt"
	"image/color"
	"strings"
)

type Style string

const (
	StyleRealistic  Style = "realistic"
	StyleSurreal    Style = "surreal"
	StyleCartoon    Style = "cartoon"
	StyleWatercolor Style = "watercolor"
	StyleCyberpunk  Style = "cyberpunk"
	StyleFantasy    Style = "fantasy"
)

type WashKind int

const (
	WashNone WashKind = iota
	WashSolid
	WashHorizontalGradient
)

// Wash is the translucent tint laid over the whole canvas after the overlay is drawn.
// Solid washes use From only.
type Wash struct {
	Kind WashKind
	From color.NRGBA
	To   color.NRGBA
}

// StyleDefinition - 스타일별 필터 / 블렌드 / 워시
type StyleDefinition struct {
	ID    Style     `json:"id"`
	Name  string    `json:"name"`
	Blend BlendMode `json:"blend_mode"`

	Filter Filter `json:"-"`
	Wash   Wash   `json:"-"`
}

var styleOrder = []Style{
	StyleRealistic,
	StyleSurreal,
	StyleCartoon,
	StyleWatercolor,
	StyleCyberpunk,
	StyleFantasy,
}

var styleTable = map[Style]StyleDefinition{
	StyleRealistic: {
		ID:     StyleRealistic,
		Name:   "Realistic",
		Filter: IdentityFilter,
		Blend:  BlendNormal,
	},
	StyleSurreal: {
		ID:     StyleSurreal,
		Name:   "Surreal",
		Filter: Filter{Brightness: 1, Contrast: 1.2, Saturation: 1.5, HueRotate: 15},
		Blend:  BlendOverlay,
		Wash:   Wash{Kind: WashSolid, From: color.NRGBA{R: 255, G: 0, B: 255, A: alpha(0.10)}},
	},
	StyleCartoon: {
		ID:     StyleCartoon,
		Name:   "Cartoon",
		Filter: Filter{Brightness: 1.1, Contrast: 1.3, Saturation: 1.8},
		Blend:  BlendNormal,
	},
	StyleWatercolor: {
		ID:     StyleWatercolor,
		Name:   "Watercolor",
		Filter: Filter{Brightness: 1.1, Contrast: 1, Saturation: 0.8, Blur: 1},
		Blend:  BlendMultiply,
	},
	StyleCyberpunk: {
		ID:     StyleCyberpunk,
		Name:   "Cyberpunk",
		Filter: Filter{Brightness: 0.9, Contrast: 1.4, Saturation: 1.6, HueRotate: -20},
		Blend:  BlendScreen,
		Wash: Wash{
			Kind: WashHorizontalGradient,
			From: color.NRGBA{R: 0, G: 255, B: 255, A: alpha(0.15)},
			To:   color.NRGBA{R: 255, G: 0, B: 255, A: alpha(0.15)},
		},
	},
	StyleFantasy: {
		ID:     StyleFantasy,
		Name:   "Fantasy",
		Filter: Filter{Brightness: 1.1, Contrast: 1, Saturation: 1.3, Sepia: 0.2},
		Blend:  BlendSoftLight,
		Wash:   Wash{Kind: WashSolid, From: color.NRGBA{R: 255, G: 200, B: 120, A: alpha(0.15)}},
	},
}

// LookupStyle returns the definition for id, case-insensitively.
// Unknown ids resolve to the realistic entry.
func LookupStyle(id Style) StyleDefinition {
	if def, ok := styleTable[Style(strings.ToLower(strings.TrimSpace(string(id))))]; ok {
		return def
	}
	return styleTable[StyleRealistic]
}

// ParseStyle normalises a request value. Empty means realistic.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleRealistic, nil
	}
	if _, ok := styleTable[Style(s)]; !ok {
		return "", fmt.Errorf("%w: unknown style %q", ErrInvalidOptions, s)
	}
	return Style(s), nil
}

// Styles lists every definition in display order.
func Styles() []StyleDefinition {
	out := make([]StyleDefinition, 0, len(styleOrder))
	for _, id := range styleOrder {
		out = append(out, styleTable[id])
	}
	return out
}

func alpha(a float64) uint8 {
	return uint8(a*255 + 0.5)
}
