package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/scrypster/showscout/internal/config"
)

// ErrSearchQuotaExhausted is the distinguished fatal signal: the search
// dependency has no credits left and can serve no further requests for this
// run. It aborts the whole in-flight research operation rather than one field.
var ErrSearchQuotaExhausted = errors.New("search quota exhausted")

// ToolNameSearch identifies the web search tool.
const ToolNameSearch = "search"

const defaultSearchEndpoint = "https://google.serper.dev/search"

// SearchClient calls the Serper web-search API with client-side rate
// limiting and a circuit breaker around the HTTP call.
type SearchClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *SearchBreaker
}

// NewSearchClient creates a search client from configuration.
func NewSearchClient(cfg config.SearchConfig) *SearchClient {
	every := rate.Every(time.Duration(float64(time.Second) / cfg.RatePerSec))
	return &SearchClient{
		apiKey:   cfg.SerperAPIKey,
		endpoint: defaultSearchEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(every, cfg.Burst),
		breaker:  NewSearchBreaker(),
	}
}

type serperRequest struct {
	Query string `json:"q"`
}

type serperResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	KnowledgeGraph struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Website     string `json:"website"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search runs one query and returns a plain-text digest of the results.
// An HTTP 400 from the API means the account is out of credits and maps to
// ErrSearchQuotaExhausted; every other failure is an ordinary error.
func (c *SearchClient) Search(ctx context.Context, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("search: rate limiter: %w", err)
	}

	result, err := c.breaker.Execute(func() (string, error) {
		return c.search(ctx, query)
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (c *SearchClient) search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(serperRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("search: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("search: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		// Serper signals an exhausted credit balance with a 400.
		return "", ErrSearchQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("search: api returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("search: failed to decode response: %w", err)
	}

	return formatSearchResults(sr), nil
}

// formatSearchResults renders the API response as the plain text the
// reasoning backend consumes.
func formatSearchResults(sr serperResponse) string {
	var b strings.Builder
	if sr.AnswerBox.Answer != "" {
		fmt.Fprintf(&b, "Answer: %s\n", sr.AnswerBox.Answer)
	} else if sr.AnswerBox.Snippet != "" {
		fmt.Fprintf(&b, "Answer: %s\n", sr.AnswerBox.Snippet)
	}
	if kg := sr.KnowledgeGraph; kg.Title != "" {
		fmt.Fprintf(&b, "%s (%s): %s", kg.Title, kg.Type, kg.Description)
		if kg.Website != "" {
			fmt.Fprintf(&b, " - %s", kg.Website)
		}
		b.WriteString("\n")
	}
	for i, o := range sr.Organic {
		if i >= 8 {
			break
		}
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", o.Title, o.Link, o.Snippet)
	}
	return strings.TrimSpace(b.String())
}

// newSearchTool wraps a SearchClient as a Tool. Empty result sets are
// reported as text so the model falls back to its own knowledge instead of
// retrying the same query.
func newSearchTool(client *SearchClient) Tool {
	return Tool{
		Name:        ToolNameSearch,
		Description: "Search the web for info about artists, events, venues. Input: a search query string.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query string",
				},
			},
			"required": []string{"query"},
		},
		Run: func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return "", errors.New("search: missing query argument")
			}
			result, err := client.Search(ctx, query)
			if err != nil {
				return "", err
			}
			if len(result) < 10 {
				return fmt.Sprintf("Search returned no useful results for %q. Please provide your best answer based on your training data.", query), nil
			}
			return result, nil
		},
	}
}
