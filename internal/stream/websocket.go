package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"nhooyr.io/websocket" //nolint:staticcheck // TODO: migrate to github.com/coder/websocket

	"github.com/scrypster/showscout/pkg/types"
)

const wsWriteTimeout = 10 * time.Second

// WSWriter frames events as JSON text messages over a single websocket
// connection. Unlike a broadcast hub, each connection carries exactly one
// research run, so events go straight to the peer with no fan-out layer.
type WSWriter struct {
	conn *websocket.Conn //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
}

// AcceptWS upgrades the request to a websocket connection. originPatterns
// limits which browser origins may connect; empty means same-origin only.
func AcceptWS(w http.ResponseWriter, r *http.Request, originPatterns []string) (*WSWriter, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{ //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
		OriginPatterns: originPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("stream: websocket upgrade failed: %w", err)
	}
	return &WSWriter{conn: conn}, nil
}

// Send writes one event as a JSON text message. Errors travel as JSON frames
// too, since websocket has no out-of-band event channel the way SSE does.
func (s *WSWriter) Send(ctx context.Context, ev types.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("stream: failed to encode event: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := s.conn.Write(wctx, websocket.MessageText, data); err != nil { //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
		return fmt.Errorf("stream: websocket write failed: %w", err)
	}
	return nil
}

// Stream forwards events until the channel closes or the context ends, then
// closes the connection. A write failure means the peer is gone; the
// orchestrator keeps draining on its own, so we just stop forwarding.
func (s *WSWriter) Stream(ctx context.Context, events <-chan types.StreamEvent) error {
	defer s.Close()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Send(ctx, ev); err != nil {
				log.Printf("stream: dropping websocket client: %v", err)
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close ends the connection with a normal closure status.
func (s *WSWriter) Close() {
	_ = s.conn.Close(websocket.StatusNormalClosure, "") //nolint:staticcheck // TODO: migrate to github.com/coder/websocket
}
