// Package locale looks up user-facing texts by dotted key with {param}
// substitution. Tables for en and id are embedded; unknown languages fall
// back to English, unknown keys to the key itself.
package locale

import (
	"embed"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLanguage = "en"

var supported = []string{"en", "id"}

// language codes mapped to Indonesian
var indonesianCodes = map[string]bool{"id": true, "in": true, "jv": true, "su": true, "ms": true}

var tables = map[string]map[string]string{}

func init() {
	for _, lang := range supported {
		b, err := localeFS.ReadFile("locales/" + lang + ".json")
		if err != nil {
			continue
		}
		var nested map[string]interface{}
		if err := jsoniter.Unmarshal(b, &nested); err != nil {
			continue
		}
		flat := map[string]string{}
		flatten("", nested, flat)
		tables[lang] = flat
	}
}

func flatten(prefix string, nested map[string]interface{}, out map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case string:
			out[key] = v
		case map[string]interface{}:
			flatten(key, v, out)
		}
	}
}

// DetectLanguage maps a Telegram language code onto a supported language.
func DetectLanguage(code string) string {
	code = strings.ToLower(strings.SplitN(code, "-", 2)[0])
	if indonesianCodes[code] {
		return "id"
	}
	if _, ok := tables[code]; ok {
		return code
	}
	return DefaultLanguage
}

// GetText resolves key for lang, substituting {name}-style params.
func GetText(key, lang string, params map[string]string) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[DefaultLanguage]
	}
	text, ok := table[key]
	if !ok {
		if fallback, ok2 := tables[DefaultLanguage][key]; ok2 {
			text = fallback
		} else {
			return key
		}
	}
	for k, v := range params {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}
