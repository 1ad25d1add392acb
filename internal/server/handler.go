package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/scrypster/showscout/internal/stream"
	"github.com/scrypster/showscout/pkg/types"
)

// Researcher is the orchestration surface the HTTP layer depends on.
// Satisfied by *research.Orchestrator; tests substitute fakes.
type Researcher interface {
	ResearchFields(ctx context.Context, req types.ResearchRequest) <-chan types.StreamEvent
	ArtistList(ctx context.Context, req types.ResearchRequest) ([]string, error)
	Quick(ctx context.Context, req types.ResearchRequest) (string, error)
}

// ResearchHandler serves the research endpoints.
type ResearchHandler struct {
	research       Researcher
	originPatterns []string
}

// NewResearchHandler creates the handler. originPatterns is passed through to
// websocket upgrades for origin validation.
func NewResearchHandler(research Researcher, originPatterns []string) *ResearchHandler {
	return &ResearchHandler{research: research, originPatterns: originPatterns}
}

// parseRequest validates the shared query parameters for both transports.
func (h *ResearchHandler) parseRequest(r *http.Request) (types.ResearchRequest, string, error) {
	q := r.URL.Query()

	event, err := validateEvent(q.Get("date"), q.Get("title"), q.Get("venue"), q.Get("url"))
	if err != nil {
		return types.ResearchRequest{}, "", err
	}
	mode, err := validateMode(q.Get("mode"))
	if err != nil {
		return types.ResearchRequest{}, "", err
	}
	artists, err := parseArtists(q.Get("artists"))
	if err != nil {
		return types.ResearchRequest{}, "", err
	}
	if mode == ModeArtistFields && len(artists) == 0 {
		return types.ResearchRequest{}, "", errArtistsRequired
	}

	req := types.ResearchRequest{
		Event:   event,
		Artists: artists,
		NoCache: types.ParseNoCache(q.Get("no_cache")),
	}
	return req, mode, nil
}

// ServeSSE handles GET /api/research, streaming research events as
// server-sent events. The connection stays open for the life of one run.
func (h *ResearchHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, mode, err := h.parseRequest(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	sse, err := stream.NewSSEWriter(w)
	if err != nil {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	log.Printf("server: research request mode=%s title=%q artists=%d no_cache=%v",
		mode, req.Event.Title, len(req.Artists), req.NoCache)

	switch mode {
	case ModeQuick:
		summary, err := h.research.Quick(ctx, req)
		if err != nil {
			_ = sse.Send(types.ErrorEvent(err.Error()))
			return
		}
		_ = sse.SendRaw(summary)

	case ModeArtistList:
		artists, err := h.research.ArtistList(ctx, req)
		if err != nil {
			_ = sse.Send(types.ErrorEvent(err.Error()))
			return
		}
		if len(artists) == 0 {
			_ = sse.Send(types.ErrorEvent("Unable to determine artists for this event."))
			return
		}
		data, _ := json.Marshal(artists)
		_ = sse.SendRaw(string(data))

	case ModeArtistFields:
		if err := sse.Stream(ctx, h.research.ResearchFields(ctx, req)); err != nil {
			log.Printf("server: research stream ended early: %v", err)
		}
	}
}

// ServeWS handles GET /api/research/ws: the artist-fields event sequence over
// a websocket instead of SSE. The single-shot modes have no reason to hold a
// socket open, so they stay SSE-only.
func (h *ResearchHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	req, mode, err := h.parseRequest(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if mode != ModeArtistFields {
		badRequest(w, errWSFieldsOnly)
		return
	}

	ws, err := stream.AcceptWS(w, r, h.originPatterns)
	if err != nil {
		log.Printf("server: %v", err)
		return
	}

	ctx := r.Context()
	log.Printf("server: websocket research request title=%q artists=%d", req.Event.Title, len(req.Artists))
	if err := ws.Stream(ctx, h.research.ResearchFields(ctx, req)); err != nil {
		log.Printf("server: websocket stream ended early: %v", err)
	}
}

func badRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(body), http.StatusBadRequest)
}
