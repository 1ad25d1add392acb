package types

import "strings"

// EventContext is the ambient query context a research request runs under.
// The free-text fields participate in cache fingerprinting and prompt
// construction; the engine never mutates them.
type EventContext struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Venue string `json:"venue"`
	URL   string `json:"url"`
}

// ResearchRequest is the inbound request consumed from the transport layer:
// the event context, the artists to research, and a cache-bypass flag.
type ResearchRequest struct {
	Event   EventContext `json:"event"`
	Artists []string     `json:"artists"`
	NoCache bool         `json:"no_cache"`
}

// ParseNoCache interprets the cache-bypass flag, which clients send either as
// a boolean or as a truthy string spelling ("true", "1", "yes").
func ParseNoCache(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
