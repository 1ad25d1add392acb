// Package stream turns orchestrator events into ordered outbound event
// streams: server-sent events for plain HTTP clients and a websocket variant.
// Every stream is append-only and carries exactly one terminal frame.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/scrypster/showscout/pkg/types"
)

// SSEWriter frames events as server-sent events. Datapoints and the
// complete marker travel as "data" events carrying JSON; a fatal abort is a
// transport-level "error" event carrying a human-readable reason.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares w for event streaming. It fails when the underlying
// writer cannot flush per event, since buffering would defeat streaming.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("stream: response writer does not support flushing")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send writes one framed event and flushes it to the client.
func (s *SSEWriter) Send(ev types.StreamEvent) error {
	if ev.Type == types.EventError {
		if _, err := fmt.Fprintf(s.w, "event: error\ndata: Error: %s\n\n", ev.Message); err != nil {
			return fmt.Errorf("stream: write failed: %w", err)
		}
		s.flusher.Flush()
		return nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("stream: failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: data\ndata: %s\n\n", data); err != nil {
		return fmt.Errorf("stream: write failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// SendRaw writes one "data" frame whose payload is the given text rather
// than a framed event. The single-shot modes stream bare text and JSON
// arrays this way.
func (s *SSEWriter) SendRaw(data string) error {
	if _, err := fmt.Fprintf(s.w, "event: data\n"); err != nil {
		return fmt.Errorf("stream: write failed: %w", err)
	}
	// A newline inside the payload would break framing; split it across
	// data lines per the SSE wire format.
	for _, line := range strings.Split(data, "\n") {
		if _, err := fmt.Fprintf(s.w, "data: %s\n", line); err != nil {
			return fmt.Errorf("stream: write failed: %w", err)
		}
	}
	if _, err := fmt.Fprint(s.w, "\n"); err != nil {
		return fmt.Errorf("stream: write failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Stream consumes events until the channel closes or the context ends,
// forwarding each to the client in order.
func (s *SSEWriter) Stream(ctx context.Context, events <-chan types.StreamEvent) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Send(ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
