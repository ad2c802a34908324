package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstEntry(t *testing.T) {
	t.Run("returns first row", func(t *testing.T) {
		entry, err := firstEntry([]byte(`[{"id":"a","title":"Dusk","style":"fantasy","image_url":"u","downloads":3,"created_at":"2026-01-02T03:04:05Z"}]`), "a")
		require.NoError(t, err)
		assert.Equal(t, "Dusk", entry.Title)
		assert.Equal(t, 3, entry.Downloads)
		assert.Nil(t, entry.Description)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		_, err := firstEntry([]byte(`[]`), "a")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := firstEntry([]byte(`{`), "a")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
