// Package wiki fetches article summaries from the Wikipedia REST API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	summaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"
	searchURL  = "https://en.wikipedia.org/w/api.php"
)

// Client looks up article summaries with an in-memory cache.
type Client struct {
	summaryBase string
	searchBase  string
	httpClient  *http.Client
	cache       *gocache.Cache
	log         *slog.Logger
}

func NewClient(cacheTTL time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Client{
		summaryBase: summaryURL,
		searchBase:  searchURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: gocache.New(cacheTTL, 2*cacheTTL),
		log:   log,
	}
}

type summaryResponse struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Summary returns a formatted article summary for a title. Disambiguation
// pages and misses fall back to an opensearch lookup for the closest
// matching article.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("wiki: empty title")
	}

	if cached, ok := c.cache.Get(title); ok {
		return cached.(string), nil
	}

	sum, err := c.fetchSummary(ctx, title)
	if err != nil || sum.Type == "disambiguation" {
		resolved, rerr := c.resolveTitle(ctx, title)
		if rerr != nil {
			if err != nil {
				return "", err
			}
			return "", fmt.Errorf("wiki: %q is ambiguous and no alternative was found", title)
		}
		if sum, err = c.fetchSummary(ctx, resolved); err != nil {
			return "", err
		}
	}

	out := format(sum)
	c.cache.Set(title, out, gocache.DefaultExpiration)
	c.log.Info("wikipedia lookup", "title", title, "resolved", sum.Title)
	return out, nil
}

func (c *Client) fetchSummary(ctx context.Context, title string) (*summaryResponse, error) {
	u := c.summaryBase + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("wiki: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("wiki: no article for %q", title)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("wiki: read response: %w", err)
	}
	var sum summaryResponse
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, fmt.Errorf("wiki: decode summary: %w", err)
	}
	return &sum, nil
}

// resolveTitle uses the opensearch API to find the best article title for
// a free-form query.
func (c *Client) resolveTitle(ctx context.Context, query string) (string, error) {
	q := url.Values{
		"action": {"opensearch"},
		"search": {query},
		"limit":  {"1"},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchBase+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("wiki: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wiki: opensearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wiki: opensearch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("wiki: read response: %w", err)
	}

	// Opensearch responds with [query, [titles], [descriptions], [urls]].
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) < 2 {
		return "", fmt.Errorf("wiki: decode opensearch response")
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil || len(titles) == 0 {
		return "", fmt.Errorf("wiki: no match for %q", query)
	}
	return titles[0], nil
}

func format(sum *summaryResponse) string {
	var sb strings.Builder
	sb.WriteString(sum.Title)
	if sum.Description != "" {
		sb.WriteString(" (" + sum.Description + ")")
	}
	sb.WriteString("\n\n")
	sb.WriteString(sum.Extract)
	if page := sum.ContentURLs.Desktop.Page; page != "" {
		sb.WriteString("\n\nSource: " + page)
	}
	return sb.String()
}
