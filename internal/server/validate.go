package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/scrypster/showscout/pkg/types"
)

var (
	errArtistsRequired = errors.New("artists parameter required for artists_fields mode")
	errWSFieldsOnly    = errors.New("websocket endpoint supports artists_fields mode only")
)

// Research modes accepted by the API.
const (
	ModeQuick        = "quick"
	ModeArtistList   = "artists_list"
	ModeArtistFields = "artists_fields"
)

var (
	datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	whitespace = regexp.MustCompile(`\s+`)
)

const (
	maxTitleLen = 220
	maxVenueLen = 140
	maxURLLen   = 300
)

// normalizeParam replaces non-breaking spaces, collapses whitespace runs and
// trims. Venue browser extensions and scrapers both feed this API, so the
// inputs arrive messy.
func normalizeParam(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func validateDate(date string) (string, error) {
	m := datePrefix.FindStringSubmatch(date)
	if m == nil {
		return "", fmt.Errorf("invalid date format (expected YYYY-MM-DD)")
	}
	return m[1], nil
}

func validateParam(value, name string, maxLen int) (string, error) {
	cleaned := normalizeParam(value)
	if cleaned == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if len(cleaned) > maxLen {
		return "", fmt.Errorf("%s too long (max %d chars)", name, maxLen)
	}
	return cleaned, nil
}

// validateEvent normalizes and bounds the event identity parameters. The URL
// is optional; everything else is mandatory.
func validateEvent(date, title, venue, url string) (types.EventContext, error) {
	var ev types.EventContext
	var err error

	if ev.Date, err = validateDate(date); err != nil {
		return ev, err
	}
	if ev.Title, err = validateParam(title, "title", maxTitleLen); err != nil {
		return ev, err
	}
	if ev.Venue, err = validateParam(venue, "venue", maxVenueLen); err != nil {
		return ev, err
	}
	ev.URL = normalizeParam(url)
	if len(ev.URL) > maxURLLen {
		return ev, fmt.Errorf("url too long (max %d chars)", maxURLLen)
	}
	return ev, nil
}

func validateMode(mode string) (string, error) {
	switch mode {
	case ModeQuick, ModeArtistList, ModeArtistFields:
		return mode, nil
	case "":
		return ModeArtistFields, nil
	default:
		return "", fmt.Errorf("mode must be one of: %s, %s, %s", ModeQuick, ModeArtistList, ModeArtistFields)
	}
}

// parseArtists decodes the artists query parameter, a JSON array of names.
func parseArtists(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var artists []string
	if err := json.Unmarshal([]byte(raw), &artists); err != nil {
		return nil, fmt.Errorf("artists must be a JSON array of strings")
	}
	return artists, nil
}
