package tools

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ToolNameFetchURL identifies the page-fetch tool.
const ToolNameFetchURL = "fetch_url"

// maxFetchedContent bounds the text handed back to the reasoning backend.
const maxFetchedContent = 8000

// blockedHosts are sites known to reject scrapers; fetching them wastes a
// tool round, so the model is told to search instead.
var blockedHosts = []string{"foopee.com"}

// Fetcher retrieves a page and reduces it to plain text for the reasoning
// backend. Every URL passes an SSRF guard before any connection is made.
type Fetcher struct {
	client  *http.Client
	resolve func(ctx context.Context, host string) ([]net.IPAddr, error)
}

// NewFetcher creates a fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 20 * time.Second},
		resolve: net.DefaultResolver.LookupIPAddr,
	}
}

// CheckURL validates a URL against the SSRF policy: HTTP(S) only, resolvable
// hostname, and no private, loopback, link-local, multicast, or unspecified
// addresses.
func (f *Fetcher) CheckURL(ctx context.Context, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid protocol %q: only HTTP/HTTPS allowed", parsed.Scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("invalid URL: no hostname found")
	}

	addrs, err := f.resolve(ctx, host)
	if err != nil {
		return fmt.Errorf("cannot resolve hostname %s: %w", host, err)
	}
	for _, addr := range addrs {
		ip := addr.IP
		switch {
		case ip.IsPrivate():
			return fmt.Errorf("blocked private IP address: %s", ip)
		case ip.IsLoopback():
			return fmt.Errorf("blocked loopback address: %s", ip)
		case ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast():
			return fmt.Errorf("blocked link-local address: %s", ip)
		case ip.IsMulticast():
			return fmt.Errorf("blocked multicast address: %s", ip)
		case ip.IsUnspecified():
			return fmt.Errorf("blocked unspecified address: %s", ip)
		}
	}
	return nil
}

// Fetch retrieves the page at raw and returns its text content, truncated to
// maxFetchedContent characters. Guard failures and fetch failures are
// returned as text so the model can fall back to search.
func (f *Fetcher) Fetch(ctx context.Context, raw string) string {
	if err := f.CheckURL(ctx, raw); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	lower := strings.ToLower(raw)
	for _, host := range blockedHosts {
		if strings.Contains(lower, host) {
			return fmt.Sprintf("Error: %s blocks web scrapers. Please use web search instead.", host)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", raw, nil)
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err)
	}
	req.Header.Set("User-Agent", "showscout/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: could not load content from %s (status %d)", raw, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Sprintf("Error fetching URL: %v", err)
	}

	content := htmlToText(string(body))
	if content == "" {
		return fmt.Sprintf("Error: could not load content from %s", raw)
	}
	if len(content) > maxFetchedContent {
		content = content[:maxFetchedContent] + "\n\n[Content truncated...]"
	}
	return content
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
)

// htmlToText strips markup down to readable text.
func htmlToText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = spaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return blankRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
}

// newFetchTool wraps a Fetcher as a Tool.
func newFetchTool() Tool {
	fetcher := NewFetcher()
	return Tool{
		Name:        ToolNameFetchURL,
		Description: "Fetch and extract text content from a URL. Input: a URL string. Returns the page content as text.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "URL to fetch",
				},
			},
			"required": []string{"url"},
		},
		Run: func(ctx context.Context, args map[string]any) (string, error) {
			raw, _ := args["url"].(string)
			if raw == "" {
				return "", fmt.Errorf("fetch_url: missing url argument")
			}
			return fetcher.Fetch(ctx, raw), nil
		},
	}
}
