package fusion

import "errors"

var (
	// ErrMissingInput is returned before any decode or draw when an image is absent.
	ErrMissingInput = errors.New("both a background image and a person image are required")
	// ErrInvalidOptions wraps out-of-range or unknown option values.
	ErrInvalidOptions = errors.New("invalid processing options")
	// ErrDecode wraps any failure to turn an input data URI into pixels.
	ErrDecode = errors.New("failed to decode image")
)

// IsValidationError reports whether err was caused by bad caller input rather
// than by processing.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrInvalidOptions)
}
