// Package tools provides the external lookup collaborators the reasoning
// backend may invoke during field research: web search and page fetching.
// Each tool exposes a single call contract (args in, text out) plus a
// distinguished fatal error for search quota exhaustion.
package tools

import (
	"context"

	"github.com/scrypster/showscout/internal/config"
	"github.com/scrypster/showscout/pkg/types"
)

// Tool is one callable collaborator offered to the reasoning backend.
type Tool struct {
	Name        string
	Description string
	// Parameters is the JSON-schema object describing the tool's arguments.
	Parameters map[string]any
	// Run executes the tool. A returned error is recoverable and fed back to
	// the model as text, except ErrSearchQuotaExhausted which is fatal.
	Run func(ctx context.Context, args map[string]any) (string, error)
}

// Registry holds the configured tool set for a server instance.
type Registry struct {
	tools     []Tool
	hasSearch bool
}

// NewRegistry builds the tool set from configuration. The fetch_url tool is
// always available; the search tool only when a Serper API key is configured.
func NewRegistry(cfg config.SearchConfig) *Registry {
	r := &Registry{}
	r.tools = append(r.tools, newFetchTool())
	if cfg.SerperAPIKey != "" {
		r.tools = append(r.tools, newSearchTool(NewSearchClient(cfg)))
		r.hasSearch = true
	}
	return r
}

// HasSearch reports whether the web search tool is configured.
func (r *Registry) HasSearch() bool {
	return r.hasSearch
}

// All returns every configured tool.
func (r *Registry) All() []Tool {
	return r.tools
}

// ForField returns the tools relevant to researching one field. Bio and
// genre lookups are answered from search results alone, so they are not
// offered the page fetcher; link-hunting fields may need to inspect a page
// to verify it is artist-specific.
func (r *Registry) ForField(field types.Field) []Tool {
	switch field {
	case types.FieldBio, types.FieldGenres:
		return r.filter(func(t Tool) bool { return t.Name != ToolNameFetchURL })
	default:
		return r.tools
	}
}

func (r *Registry) filter(keep func(Tool) bool) []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
