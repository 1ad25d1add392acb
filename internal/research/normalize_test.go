package research

import (
	"testing"

	"github.com/scrypster/showscout/pkg/types"
)

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name         string
		field        types.Field
		obj          map[string]any
		wantOK       bool
		wantMarkdown string
		wantError    string
	}{
		{
			name:         "youtube direct url",
			field:        types.FieldYouTube,
			obj:          map[string]any{"youtube_url": "https://youtube.com/watch?v=abc"},
			wantOK:       true,
			wantMarkdown: "[Watch](https://youtube.com/watch?v=abc)",
		},
		{
			name:         "youtube falls back to search url",
			field:        types.FieldYouTube,
			obj:          map[string]any{"fallback_search_url": "https://youtube.com/results?q=quasi"},
			wantOK:       true,
			wantMarkdown: "[Watch](https://youtube.com/results?q=quasi)",
		},
		{
			name:      "youtube nothing found",
			field:     types.FieldYouTube,
			obj:       map[string]any{},
			wantError: "not_found",
		},
		{
			name:         "bio present",
			field:        types.FieldBio,
			obj:          map[string]any{"bio": "Portland duo formed in 1993."},
			wantOK:       true,
			wantMarkdown: "**Bio:** Portland duo formed in 1993.",
		},
		{
			name:      "bio sentinel",
			field:     types.FieldBio,
			obj:       map[string]any{"bio": "not_found"},
			wantError: "not_found",
		},
		{
			name:         "genres list",
			field:        types.FieldGenres,
			obj:          map[string]any{"genres": []any{"indie rock", "lo-fi"}},
			wantOK:       true,
			wantMarkdown: "**Genres:** indie rock, lo-fi",
		},
		{
			name:      "genres empty",
			field:     types.FieldGenres,
			obj:       map[string]any{"genres": []any{}},
			wantError: "not_found",
		},
		{
			name:         "website link",
			field:        types.FieldWebsite,
			obj:          map[string]any{"label": "Instagram", "url": "https://instagram.com/quasi"},
			wantOK:       true,
			wantMarkdown: "[Instagram](https://instagram.com/quasi)",
		},
		{
			name:      "website sentinel label",
			field:     types.FieldWebsite,
			obj:       map[string]any{"label": "not_found", "url": nil},
			wantError: "not_found",
		},
		{
			name:         "music link",
			field:        types.FieldMusic,
			obj:          map[string]any{"platform": "Spotify", "url": "https://open.spotify.com/artist/x"},
			wantOK:       true,
			wantMarkdown: "[Spotify](https://open.spotify.com/artist/x)",
		},
		{
			name:      "music missing url",
			field:     types.FieldMusic,
			obj:       map[string]any{"platform": "Spotify"},
			wantError: "not_found",
		},
		{
			name:      "unknown field",
			field:     types.Field("discography"),
			obj:       map[string]any{},
			wantError: "unknown field: discography",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeResult(tt.field, tt.obj)
			if got.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (result %+v)", got.OK(), tt.wantOK, got)
			}
			if tt.wantOK {
				if got.Value.Markdown != tt.wantMarkdown {
					t.Errorf("markdown = %q, want %q", got.Value.Markdown, tt.wantMarkdown)
				}
			} else if got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
		})
	}
}
