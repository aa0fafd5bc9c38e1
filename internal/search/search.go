// Package search scrapes DuckDuckGo's HTML endpoint for web results. No
// API key is needed; results are cached briefly to spare the endpoint.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/net/html"
)

const endpoint = "https://html.duckduckgo.com/html/"

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Client performs searches with an in-memory result cache.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      *gocache.Cache
	log        *slog.Logger

	MaxResults int
}

func NewClient(cacheTTL time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		log:        log,
		MaxResults: 8,
	}
}

// Search runs a query and returns results formatted for a model prompt.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("search: empty query")
	}

	if cached, ok := c.cache.Get(query); ok {
		return cached.(string), nil
	}

	results, err := c.fetch(ctx, query)
	if err != nil {
		return "", err
	}
	out := Format(query, results)
	c.cache.Set(query, out, gocache.DefaultExpiration)
	return out, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]Result, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; researchd/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	results := parseResults(body, c.MaxResults)
	c.log.Info("search complete", "query", query, "results", len(results))
	return results, nil
}

// Format renders results the way the agent prompt expects them.
func Format(query string, results []Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search results for %q:\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Snippet)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// parseResults walks the result page. Hits are anchors with class
// result__a; the snippet lives in a sibling element with class
// result__snippet.
func parseResults(body []byte, max int) []Result {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	var results []Result
	var current *Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max && current == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				if current != nil {
					results = append(results, *current)
				}
				current = &Result{
					Title: strings.TrimSpace(textContent(n)),
					URL:   resolveHref(attr(n, "href")),
				}
			case hasClass(n, "result__snippet"):
				if current != nil && current.Snippet == "" {
					current.Snippet = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if current != nil && len(results) < max {
		results = append(results, *current)
	}
	if len(results) > max {
		results = results[:max]
	}

	// Drop hits with no usable link (ads and tracking stubs).
	out := results[:0]
	for _, r := range results {
		if r.URL != "" && r.Title != "" {
			out = append(out, r)
		}
	}
	return out
}

// resolveHref unwraps DuckDuckGo's redirect links, which carry the real
// destination in the uddg query parameter.
func resolveHref(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
