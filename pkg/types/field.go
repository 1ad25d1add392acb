package types

// Field is one discoverable attribute of an artist. The set is closed; this
// is the canonical v2 shape with bio and genres as separate fields (the old
// combined bio_genres field is not supported and stale records using it are
// simply re-researched).
type Field string

const (
	FieldYouTube Field = "youtube"
	FieldBio     Field = "bio"
	FieldGenres  Field = "genres"
	FieldWebsite Field = "website"
	FieldMusic   Field = "music"
)

// AllFields is the expected field set for every researched artist, in the
// order fields are dispatched.
var AllFields = []Field{FieldYouTube, FieldBio, FieldGenres, FieldWebsite, FieldMusic}

// IsValidField reports whether f is a member of the closed field set.
func IsValidField(f Field) bool {
	switch f {
	case FieldYouTube, FieldBio, FieldGenres, FieldWebsite, FieldMusic:
		return true
	}
	return false
}

// FieldValue is the structured payload of a successful field lookup plus its
// display-ready rendering. Which data fields are populated depends on the
// field: youtube/website/music carry URL (and Label or Platform), bio carries
// Bio, genres carries Genres.
type FieldValue struct {
	URL      string   `json:"url,omitempty"`
	Label    string   `json:"label,omitempty"`
	Platform string   `json:"platform,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Markdown string   `json:"markdown"`
}

// FieldResult is the closed result variant for one field lookup: exactly one
// of Value or Error is set. Once produced it is immutable.
type FieldResult struct {
	Value *FieldValue `json:"value,omitempty"`
	Error string      `json:"error,omitempty"`
}

// OkResult wraps a FieldValue in a successful FieldResult.
func OkResult(v FieldValue) FieldResult {
	return FieldResult{Value: &v}
}

// ErrResult builds a failed FieldResult with the given reason.
func ErrResult(reason string) FieldResult {
	return FieldResult{Error: reason}
}

// OK reports whether the result carries a value rather than an error.
func (r FieldResult) OK() bool {
	return r.Value != nil
}

// FieldEntry pairs a field with its result, preserving the order in which
// results arrived. Cache records store entries rather than a map so a cache
// hit can replay fields in their original insertion order.
type FieldEntry struct {
	Field  Field       `json:"field"`
	Result FieldResult `json:"result"`
}

// ArtistRecord accumulates field results for one artist during a research
// run. The orchestrator's fan-in loop is its only writer.
type ArtistRecord struct {
	Artist  string       `json:"artist"`
	Entries []FieldEntry `json:"fields"`
}

// Set appends a result for the given field. Fields are recorded at most once
// per run by construction (one task per field), so Set does not deduplicate.
func (r *ArtistRecord) Set(f Field, res FieldResult) {
	r.Entries = append(r.Entries, FieldEntry{Field: f, Result: res})
}

// Get returns the result recorded for f, if any.
func (r *ArtistRecord) Get(f Field) (FieldResult, bool) {
	for _, e := range r.Entries {
		if e.Field == f {
			return e.Result, true
		}
	}
	return FieldResult{}, false
}

// Complete reports whether every field in expected has a recorded result,
// successful or not. Failed fields count: completion is gated on presence,
// not success.
func (r *ArtistRecord) Complete(expected []Field) bool {
	for _, f := range expected {
		if _, ok := r.Get(f); !ok {
			return false
		}
	}
	return true
}
