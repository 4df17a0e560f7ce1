package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "id", DetectLanguage("id"))
	assert.Equal(t, "id", DetectLanguage("in"))
	assert.Equal(t, "id", DetectLanguage("jv"))
	assert.Equal(t, "id", DetectLanguage("ms"))
	assert.Equal(t, "id", DetectLanguage("ID"))
	assert.Equal(t, "en", DetectLanguage("en"))
	assert.Equal(t, "en", DetectLanguage("en-US"))
	assert.Equal(t, "en", DetectLanguage("de"))
	assert.Equal(t, "en", DetectLanguage(""))
}

func TestGetText(t *testing.T) {
	got := GetText("moderation.kicked", "en", map[string]string{"user": "Alice"})
	assert.Contains(t, got, "Alice")
	assert.NotContains(t, got, "{user}")

	// Indonesian table has its own texts
	en := GetText("moderation.admin_only", "en", nil)
	id := GetText("moderation.admin_only", "id", nil)
	assert.NotEqual(t, en, id)
}

func TestGetTextFallbacks(t *testing.T) {
	// unknown language falls back to English
	assert.Equal(t, GetText("stats.header", "en", nil), GetText("stats.header", "fr", nil))
	// unknown key comes back verbatim
	assert.Equal(t, "no.such.key", GetText("no.such.key", "en", nil))
}

func TestAllEnglishKeysHaveIndonesian(t *testing.T) {
	for key := range tables["en"] {
		_, ok := tables["id"][key]
		assert.True(t, ok, "missing id translation for %v", key)
	}
}
