package monument

import (
	"sort"
)

// The upstream is a linked-data store whose text fields arrive wrapped
// in a multilingual object: {"_type": "trans", "tr": {"en": ..., "nl": ...}}.
// Field extraction only works on plain strings, so wrappers are
// resolved first: the preferred language wins, and when it is absent
// any available translation is used (picked in sorted key order, so
// the fallback is deterministic).

// UnwrapTranslations walks a decoded JSON value and replaces every
// translation wrapper with the chosen text
func UnwrapTranslations(v any, lang string) any {
	switch val := v.(type) {
	case map[string]any:
		if text, ok := unwrapOne(val, lang); ok {
			return text
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = UnwrapTranslations(item, lang)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = UnwrapTranslations(item, lang)
		}
		return out
	default:
		return v
	}
}

// unwrapOne resolves a single translation wrapper, if v is one
func unwrapOne(v map[string]any, lang string) (string, bool) {
	if v["_type"] != "trans" {
		return "", false
	}
	tr, ok := v["tr"].(map[string]any)
	if !ok || len(tr) == 0 {
		return "", true
	}

	if text, ok := tr[lang].(string); ok {
		return text, true
	}

	langs := make([]string, 0, len(tr))
	for k := range tr {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	for _, k := range langs {
		if text, ok := tr[k].(string); ok {
			return text, true
		}
	}
	return "", true
}
