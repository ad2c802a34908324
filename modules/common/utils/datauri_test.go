package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{"base64 png", "data:image/png;base64,aGVsbG8=", "image/png", "hello", false},
		{"unpadded base64", "data:image/jpeg;base64,aGVsbG8", "image/jpeg", "hello", false},
		{"mime is lowercased", "data:IMAGE/WEBP;base64,aGVsbG8=", "image/webp", "hello", false},
		{"url encoded text", "data:,hello%20world", "text/plain", "hello world", false},
		{"surrounding whitespace", "  data:image/png;base64,aGVsbG8=\n", "image/png", "hello", false},
		{"no scheme", "aGVsbG8=", "", "", true},
		{"no separator", "data:image/png;base64", "", "", true},
		{"bad base64", "data:image/png;base64,@@@", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataURI(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDataURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, got.MimeType)
			assert.Equal(t, tt.wantData, string(got.Data))
		})
	}
}

func TestEncodeDataURI(t *testing.T) {
	uri := EncodeDataURI("image/jpeg", []byte("hello"))
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", uri)
	assert.True(t, IsDataURI(uri))
	assert.Equal(t, "aGVsbG8=", StripDataURIPrefix(uri))
}

func TestStripDataURIPrefix(t *testing.T) {
	assert.Equal(t, "abc", StripDataURIPrefix("data:image/png;base64,abc"))
	assert.Equal(t, "abc", StripDataURIPrefix("abc"))
	assert.Equal(t, "data:broken", StripDataURIPrefix("data:broken"))
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, "jpg", ExtensionForMime("image/jpeg"))
	assert.Equal(t, "png", ExtensionForMime("IMAGE/PNG"))
	assert.Equal(t, "webp", ExtensionForMime("image/webp"))
	assert.Equal(t, "bin", ExtensionForMime("application/octet-stream"))
}

func TestJPEGRoundTrip(t *testing.T) {
	img := imaging.New(32, 16, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	data, err := EncodeJPEG(img, 92)
	require.NoError(t, err)

	parsed, err := ParseDataURI(EncodeDataURI("image/jpeg", data))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", parsed.MimeType)
	assert.Equal(t, data, parsed.Data)

	decoded, format, err := DecodeImage(parsed.Data, 0)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 32, 16), decoded.Bounds())
}

func TestDecodeImage(t *testing.T) {
	t.Run("garbage bytes", func(t *testing.T) {
		_, _, err := DecodeImage([]byte("not an image"), 0)
		require.Error(t, err)
	})

	t.Run("pixel budget", func(t *testing.T) {
		data, err := EncodeJPEG(imaging.New(100, 100, color.White), 80)
		require.NoError(t, err)

		_, _, err = DecodeImage(data, 100*100-1)
		assert.ErrorIs(t, err, ErrImageTooLarge)

		_, _, err = DecodeImage(data, 100*100)
		assert.NoError(t, err)
	})
}
