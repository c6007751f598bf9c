package utils

import (
	"testing"

	"portal/src/types"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRequestResources(t *testing.T) {
	t.Run("keeps labeled http entries and drops the rest", func(t *testing.T) {
		raw := types.Resources{
			{Label: "Figma", URL: "https://figma.com/file/abc"},
			{Label: "", URL: "https://example.com"},
			{Label: "Notes", URL: "not a url"},
			{Label: "Evil", URL: "javascript:alert(1)"},
			{Label: "  Staging  ", URL: "  http://stage.example.com  "},
		}
		normalized := NormalizeRequestResources(raw, nil)

		assert.Len(t, normalized, 2)
		assert.Equal(t, "Figma", normalized[0].Label)
		assert.Equal(t, "Staging", normalized[1].Label)
		assert.Equal(t, "http://stage.example.com", normalized[1].URL)
	})

	t.Run("synthesizes a Live Staging entry from the legacy url", func(t *testing.T) {
		legacy := "https://staging.example.com"
		normalized := NormalizeRequestResources(nil, &legacy)

		assert.Len(t, normalized, 1)
		assert.Equal(t, "Live Staging", normalized[0].Label)
		assert.Equal(t, legacy, normalized[0].URL)
	})

	t.Run("ignores an invalid legacy url", func(t *testing.T) {
		legacy := "ftp://old.example.com"
		normalized := NormalizeRequestResources(nil, &legacy)

		assert.Empty(t, normalized)
	})

	t.Run("present but empty list wins over the legacy url", func(t *testing.T) {
		legacy := "https://staging.example.com"
		normalized := NormalizeRequestResources(types.Resources{}, &legacy)

		assert.Empty(t, normalized)
	})
}

func TestResolveRequestResources(t *testing.T) {
	legacy := "https://staging.example.com"

	t.Run("falls back to legacy when the stored list is empty", func(t *testing.T) {
		resolved := ResolveRequestResources(types.Resources{}, &legacy)

		assert.Len(t, resolved, 1)
		assert.Equal(t, "Live Staging", resolved[0].Label)
	})

	t.Run("stored list suppresses the legacy url", func(t *testing.T) {
		raw := types.Resources{{Label: "Figma", URL: "https://figma.com/file/abc"}}
		resolved := ResolveRequestResources(raw, &legacy)

		assert.Len(t, resolved, 1)
		assert.Equal(t, "Figma", resolved[0].Label)
	})
}

func TestIsValidHTTPURL(t *testing.T) {
	assert.True(t, IsValidHTTPURL("https://example.com/path"))
	assert.True(t, IsValidHTTPURL("http://localhost:3000"))
	assert.False(t, IsValidHTTPURL("javascript:alert(1)"))
	assert.False(t, IsValidHTTPURL("ftp://example.com"))
	assert.False(t, IsValidHTTPURL("//missing-scheme.example.com"))
	assert.False(t, IsValidHTTPURL("https://"))
}
