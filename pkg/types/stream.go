package types

// Stream event types. The outbound stream is append-only and carries exactly
// one terminal frame: either a complete marker or an error frame.
const (
	EventArtistDatapoint = "artist_datapoint"
	EventComplete        = "complete"
	EventError           = "error"
)

// StreamEvent is one framed event on the outbound research stream.
//
// Datapoint events carry Artist, Field and Value. The complete marker carries
// only Type. Error frames carry a human-readable Message and terminate the
// stream in place of the complete marker.
type StreamEvent struct {
	Type    string       `json:"type"`
	Artist  string       `json:"artist,omitempty"`
	Field   Field        `json:"field,omitempty"`
	Value   *FieldResult `json:"value,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Datapoint builds an artist_datapoint event.
func Datapoint(artist string, field Field, result FieldResult) StreamEvent {
	return StreamEvent{
		Type:   EventArtistDatapoint,
		Artist: artist,
		Field:  field,
		Value:  &result,
	}
}

// Complete builds the terminal complete marker.
func Complete() StreamEvent {
	return StreamEvent{Type: EventComplete}
}

// ErrorEvent builds a terminal error frame.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}

// Terminal reports whether the event ends the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}
