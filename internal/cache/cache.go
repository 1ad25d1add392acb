// Package cache provides the content-addressed record store for completed
// research results. Records are keyed by a fingerprint of the normalized
// event context plus a mode tag, so near-duplicate requests (whitespace or
// case differences) share a record while unrelated requests never collide.
//
// Persistence here is an optimization, not a correctness requirement: Save
// logs and swallows failures, and Load treats unreadable or untrusted records
// as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/scrypster/showscout/pkg/types"
)

// Record is the versioned on-store representation of one cached result.
// Key is stored inside the record for self-verification: a record is only
// trusted when its stored key equals the key used to fetch it.
type Record struct {
	Key      string             `json:"key"`
	Artist   string             `json:"artist,omitempty"`
	Fields   []types.FieldEntry `json:"fields,omitempty"`
	Summary  string             `json:"summary,omitempty"`
	Artists  []string           `json:"artists,omitempty"`
	CachedAt time.Time          `json:"cached_at"`
}

// Store is a fingerprint-addressed record store.
//
// Load returns (nil, nil) when no record exists, when the underlying store is
// unreadable, or when the record's stored key does not match the lookup key.
// Save merges key and timestamp metadata into the record and publishes it
// atomically; persistence failures are logged, never returned.
type Store interface {
	Load(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, key string, rec Record)
	Close() error
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeField collapses internal whitespace, trims, and case-folds a
// free-text context field for fingerprinting.
func normalizeField(value string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), " ")
}

// Fingerprint derives the deterministic cache key for an event context and
// mode tag. Contexts differing only by whitespace or case produce the same
// key; different mode tags always produce different keys.
func Fingerprint(event types.EventContext, mode string) string {
	base := strings.Join([]string{
		normalizeField(event.Date),
		normalizeField(event.Venue),
		normalizeField(event.Title),
		strings.TrimSpace(strings.ToLower(mode)),
	}, "|")
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

// ArtistFieldsMode is the mode tag for per-artist field records. Embedding
// the artist name gives each artist its own key under the same event context.
func ArtistFieldsMode(artist string) string {
	return "artist_fields_" + artist
}

var keyRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// validKey reports whether key has the exact shape Fingerprint produces.
// Every engine checks this before resolving a location, so a crafted key can
// never escape the configured store (path traversal for the file engine,
// malformed keys elsewhere).
func validKey(key string) bool {
	return keyRe.MatchString(key)
}
