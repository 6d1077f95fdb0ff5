package monument

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnwrapTranslations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		lang string
		want any
	}{
		{
			name: "preferred language wins",
			in:   `{"_type": "trans", "tr": {"en": "Amsterdam", "nl": "Amsterdam (NL)"}}`,
			lang: "en",
			want: "Amsterdam",
		},
		{
			name: "falls back to any available translation",
			in:   `{"_type": "trans", "tr": {"nl": "weduwe van"}}`,
			lang: "en",
			want: "weduwe van",
		},
		{
			name: "fallback is deterministic across languages",
			in:   `{"_type": "trans", "tr": {"nl": "eerst", "de": "zuerst"}}`,
			lang: "en",
			want: "zuerst", // sorted key order: de before nl
		},
		{
			name: "wrappers nested in objects and lists",
			in: `{
			  "title": {"_type": "trans", "tr": {"en": "Isaac de Vries"}},
			  "events": [
			    {"place": {"_type": "trans", "tr": {"nl": "Westerbork"}}}
			  ]
			}`,
			lang: "en",
			want: map[string]any{
				"title": "Isaac de Vries",
				"events": []any{
					map[string]any{"place": "Westerbork"},
				},
			},
		},
		{
			name: "plain values pass through",
			in:   `{"id": 561862, "title": "Isaac de Vries"}`,
			lang: "en",
			want: map[string]any{"id": float64(561862), "title": "Isaac de Vries"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in any
			if err := json.Unmarshal([]byte(tt.in), &in); err != nil {
				t.Fatalf("decode input: %v", err)
			}

			got := UnwrapTranslations(in, tt.lang)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("UnwrapTranslations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
