package research

import (
	"context"
	"fmt"
	"log"

	"github.com/scrypster/showscout/internal/cache"
	"github.com/scrypster/showscout/internal/llm"
	"github.com/scrypster/showscout/pkg/types"
)

// Mode tags for the non-field cache records.
const (
	modeArtistList = "artists_list"
	modeQuick      = "quick"
)

// ArtistList discovers the performer lineup for an event: one tool-assisted
// lookup against the event title, page, or web search. The result is cached
// per event context.
func (o *Orchestrator) ArtistList(ctx context.Context, req types.ResearchRequest) ([]string, error) {
	key := cache.Fingerprint(req.Event, modeArtistList)
	if !req.NoCache {
		if rec, err := o.store.Load(ctx, key); err == nil && rec != nil && len(rec.Artists) > 0 {
			log.Printf("orchestrator: artist list cache hit for %q", req.Event.Title)
			return rec.Artists, nil
		}
	}

	text, err := o.exec.RunText(ctx, llm.ArtistListPrompt(req.Event), o.tools.All())
	if err != nil {
		return nil, fmt.Errorf("artist list lookup failed: %w", err)
	}

	artists := llm.ParseArtistList(text)
	if len(artists) == 0 {
		return nil, nil
	}

	if !req.NoCache {
		o.store.Save(ctx, key, cache.Record{Artists: artists})
	}
	return artists, nil
}

// Quick produces a short factual event summary with the faster backend and
// no tools, cached per event context.
func (o *Orchestrator) Quick(ctx context.Context, req types.ResearchRequest) (string, error) {
	key := cache.Fingerprint(req.Event, modeQuick)
	if !req.NoCache {
		if rec, err := o.store.Load(ctx, key); err == nil && rec != nil && rec.Summary != "" {
			log.Printf("orchestrator: quick summary cache hit for %q", req.Event.Title)
			return rec.Summary, nil
		}
	}

	summary, err := o.quickExec.RunText(ctx, llm.QuickPrompt(req.Event), nil)
	if err != nil {
		return "", fmt.Errorf("quick summary failed: %w", err)
	}

	if !req.NoCache && summary != "" {
		o.store.Save(ctx, key, cache.Record{Summary: summary})
	}
	return summary, nil
}
