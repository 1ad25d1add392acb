package llm

import (
	"reflect"
	"testing"
)

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "clean json",
			input: `{"bio": "Portland duo"}`,
			want:  map[string]any{"bio": "Portland duo"},
		},
		{
			name:  "json code fence",
			input: "```json\n{\"bio\": \"Portland duo\"}\n```",
			want:  map[string]any{"bio": "Portland duo"},
		},
		{
			name:  "bare code fence",
			input: "```\n{\"genres\": [\"indie rock\"]}\n```",
			want:  map[string]any{"genres": []any{"indie rock"}},
		},
		{
			name:  "json with prose around it",
			input: `Here is what I found: {"label": "Website", "url": "https://example.com"} Hope that helps!`,
			want:  map[string]any{"label": "Website", "url": "https://example.com"},
		},
		{
			name:  "braces inside string values",
			input: `Result: {"bio": "known for \"{weird} titles\""}`,
			want:  map[string]any{"bio": `known for "{weird} titles"`},
		},
		{
			name:  "nested object",
			input: `{"value": {"url": "https://example.com"}}`,
			want:  map[string]any{"value": map[string]any{"url": "https://example.com"}},
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no json at all",
			input:   "I could not find anything about this artist.",
			wantErr: true,
		},
		{
			name:    "unterminated object",
			input:   `{"bio": "cut off`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructured(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStructured() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseStructured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringField(t *testing.T) {
	obj := map[string]any{"bio": "Portland duo", "count": 3.0, "empty": ""}

	if v, ok := StringField(obj, "bio"); !ok || v != "Portland duo" {
		t.Errorf("StringField(bio) = (%q, %v)", v, ok)
	}
	if _, ok := StringField(obj, "missing"); ok {
		t.Error("StringField(missing) reported present")
	}
	if _, ok := StringField(obj, "count"); ok {
		t.Error("StringField(count) accepted a non-string")
	}
	if _, ok := StringField(obj, "empty"); ok {
		t.Error("StringField(empty) accepted an empty string")
	}
}

func TestStringSliceField(t *testing.T) {
	obj := map[string]any{
		"genres": []any{"indie rock", "", "lo-fi", 7.0},
		"bio":    "not a slice",
	}

	got := StringSliceField(obj, "genres")
	want := []string{"indie rock", "lo-fi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StringSliceField(genres) = %v, want %v", got, want)
	}
	if StringSliceField(obj, "bio") != nil {
		t.Error("StringSliceField(bio) accepted a non-slice")
	}
	if StringSliceField(obj, "missing") != nil {
		t.Error("StringSliceField(missing) returned non-nil")
	}
}
