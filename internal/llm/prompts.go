package llm

import (
	"fmt"
	"strings"

	"github.com/scrypster/showscout/pkg/types"
)

// FieldPrompt builds the lookup prompt for one (artist, field) pair. Unknown
// fields return ok=false; the orchestrator rejects them before dispatch.
func FieldPrompt(field types.Field, artist string) (string, bool) {
	switch field {
	case types.FieldYouTube:
		return youtubePrompt(artist), true
	case types.FieldBio:
		return bioPrompt(artist), true
	case types.FieldGenres:
		return genresPrompt(artist), true
	case types.FieldWebsite:
		return websitePrompt(artist), true
	case types.FieldMusic:
		return musicPrompt(artist), true
	}
	return "", false
}

func youtubePrompt(artist string) string {
	return fmt.Sprintf(`Find one YouTube URL for a live performance by %s. If you cannot find an exact live video, provide the best channel/official video. If still unsure, return a YouTube search URL.

Output JSON with keys:
- youtube_url: direct YouTube watch URL (preferred) OR YouTube channel/video URL
- fallback_search_url: a YouTube search URL for the artist (always include)

Return ONLY JSON.`, artist)
}

func bioPrompt(artist string) string {
	return fmt.Sprintf(`Provide a short bio for %s.
- One concise sentence with a notable hook; no hype words.
- Only include information you can verify via web search or are confident about.

Output JSON with key: bio (string). If nothing trustworthy is found, return {"bio": "not_found"}. Return only JSON.`, artist)
}

func genresPrompt(artist string) string {
	return fmt.Sprintf(`List the genres for %s (try searching "%s band genre").
- 2-4 genre/subgenre terms, e.g. ["House", "Dance"] or ["Alternative Rock"].
- Extract genre terms from any description you find; do not invent them.

Output JSON with key: genres (array of strings). If none can be determined, return {"genres": []}. Return only JSON.`, artist, artist)
}

func websitePrompt(artist string) string {
	return fmt.Sprintf(`Find an official or information-rich link for %s. Priority: personal website > Instagram > Facebook page > Linktree > press bio page. Must be artist-specific, never a generic root domain.

Output JSON: {"label": "Website|Instagram|Facebook|Linktree|Other", "url": "https://..."}. If nothing trustworthy, return {"label": "not_found", "url": null}. Only JSON.`, artist)
}

func musicPrompt(artist string) string {
	return fmt.Sprintf(`Find a direct link to %s's music on Spotify or Bandcamp (prefer official artist page). If neither is available, return SoundCloud. Avoid generic home pages.

Output JSON: {"platform": "Spotify|Bandcamp|SoundCloud|Other", "url": "https://..."}. If nothing found, return {"platform": "not_found", "url": null}. Only JSON.`, artist)
}

// ArtistListPrompt builds the lineup-extraction prompt for an event. The
// instructions steer the model toward the event page when a URL is available
// and toward web search otherwise.
func ArtistListPrompt(event types.EventContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Extract the list of artists/performers at this event.

Event:
- Title: %s
- Venue: %s
- Date: %s
- Event URL: %s

Instructions:
1. First, try to extract artist names from the event title
2. If artists aren't clear from the title:`, event.Title, event.Venue, event.Date, event.URL)

	if strings.TrimSpace(event.URL) != "" {
		fmt.Fprintf(&b, `
   - Use the fetch_url tool to load the event page: %s
   - Extract all artist names from the page content
   - If the URL fetch fails, fall back to the search tool: "%s %s"`, event.URL, event.Title, event.Venue)
	} else {
		fmt.Fprintf(&b, `
   - Use the search tool to find: "%s %s %s"
   - Look for the artist lineup in the search results`, event.Title, event.Venue, event.Date)
	}

	b.WriteString(`

Output format:
Return ONLY a simple list of artist names, one per line, no numbering, no bullets, no extra text.

If you cannot find any artists, return:
Unable to determine artists
`)
	return b.String()
}

// NoArtistsSentinel is the model's answer when no lineup can be determined.
const NoArtistsSentinel = "Unable to determine artists"

// ParseArtistList splits the lineup answer into artist names, dropping blank
// lines and the not-found sentinel.
func ParseArtistList(text string) []string {
	var artists []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == NoArtistsSentinel {
			continue
		}
		artists = append(artists, name)
	}
	return artists
}

// QuickPrompt builds the fast no-tools event summary prompt.
func QuickPrompt(event types.EventContext) string {
	return fmt.Sprintf(`Describe this concert in 2-4 sentences for someone deciding whether to attend.

Event:
- Title: %s
- Venue: %s
- Date: %s

Focus on:
- Artists/performers: what they're known for, genre/style, notable works
- Factual venue details: capacity, location type (if known)

Guidelines:
- Be concise and factual - relay information, don't sell the event
- Only include information you're confident about from your training data
- Do NOT make up genres, bios, or details you're unsure about
- NO FLUFF: Avoid words like "immersive", "energetic", "vibrant", "dynamic", "exciting", "unforgettable", "experience", "atmosphere", "vibe"
- If you don't recognize the artists, say so clearly rather than speculating
- Omit information rather than guessing
`, event.Title, event.Venue, event.Date)
}
