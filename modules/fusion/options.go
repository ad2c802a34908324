package fusion

import (
	"fmt"
	"math"
)

// Options is the validated processing configuration for one fusion call.
type Options struct {
	Style               Style   `json:"style"`
	IntegrationStrength float64 `json:"integration_strength"`
	DetailLevel         float64 `json:"detail_level"`
	PreserveLighting    bool    `json:"preserve_lighting"`
	AddShadows          bool    `json:"add_shadows"`
	Instructions        string  `json:"instructions"`
	// Seed drives placement jitter. Nil means draw one per call.
	Seed *int64 `json:"seed,omitempty"`
}

// DefaultOptions matches the editor's initial control values.
func DefaultOptions() Options {
	return Options{
		Style:               StyleRealistic,
		IntegrationStrength: 70,
		DetailLevel:         80,
		PreserveLighting:    true,
		AddShadows:          true,
	}
}

// Validate normalises the style and rejects numeric fields outside [0,100].
func (o Options) Validate() (Options, error) {
	style, err := ParseStyle(string(o.Style))
	if err != nil {
		return o, err
	}
	o.Style = style

	if err := checkPercent("integration_strength", o.IntegrationStrength); err != nil {
		return o, err
	}
	if err := checkPercent("detail_level", o.DetailLevel); err != nil {
		return o, err
	}
	return o, nil
}

func checkPercent(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return fmt.Errorf("%w: %s must be within [0,100], got %v", ErrInvalidOptions, name, v)
	}
	return nil
}
