// Package agent runs tool-calling research conversations against the
// Anthropic Messages API. The model drives web search and Wikipedia
// lookups, then returns a structured report.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Searcher provides web search results formatted for the model.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// WikiLookup provides Wikipedia article summaries.
type WikiLookup interface {
	Summary(ctx context.Context, title string) (string, error)
}

// Agent orchestrates the research conversation.
type Agent struct {
	client *Client
	search Searcher
	wiki   WikiLookup
	log    *slog.Logger

	// MaxToolRounds bounds the tool-use loop so a confused model cannot
	// spin forever.
	MaxToolRounds int
	MaxTokens     int
}

func New(client *Client, search Searcher, wiki WikiLookup, log *slog.Logger) *Agent {
	if log == nil {
		log = slog.Default()
	}
	return &Agent{
		client:        client,
		search:        search,
		wiki:          wiki,
		log:           log,
		MaxToolRounds: 10,
		MaxTokens:     8192,
	}
}

// Research runs the full conversation for one query and parses the final
// structured answer. The model name is chosen by the caller.
func (a *Agent) Research(ctx context.Context, model, query string, includeViz bool) (*Result, error) {
	system := SystemPrompt(includeViz)
	tools := toolDefs()
	msgs := []Message{UserText(userPrompt(query))}
	var toolsUsed []string

	for round := 0; round <= a.MaxToolRounds; round++ {
		resp, err := a.client.CreateMessage(ctx, model, system, tools, msgs, a.MaxTokens)
		if err != nil {
			return nil, err
		}

		if resp.StopReason != "tool_use" {
			res, err := ParseResult(resp.Text())
			if err != nil {
				return nil, err
			}
			res.ToolsUsed = dedup(toolsUsed)
			return res, nil
		}

		msgs = append(msgs, Message{Role: "assistant", Content: resp.Content})
		var results []ContentBlock
		for _, use := range resp.ToolUses() {
			out, err := a.dispatch(ctx, use)
			block := ContentBlock{Type: "tool_result", ToolUseID: use.ID}
			if err != nil {
				a.log.Warn("tool call failed", "tool", use.Name, "error", err)
				block.Content = "tool error: " + err.Error()
				block.IsError = true
			} else {
				block.Content = out
			}
			results = append(results, block)
			toolsUsed = append(toolsUsed, use.Name)
		}
		msgs = append(msgs, Message{Role: "user", Content: results})
	}

	return nil, fmt.Errorf("agent: no final answer after %d tool rounds", a.MaxToolRounds)
}

func (a *Agent) dispatch(ctx context.Context, use ContentBlock) (string, error) {
	switch use.Name {
	case "web_search":
		var in struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(use.Input, &in); err != nil {
			return "", fmt.Errorf("bad web_search input: %w", err)
		}
		a.log.Info("tool call", "tool", "web_search", "query", in.Query)
		return a.search.Search(ctx, in.Query)
	case "wikipedia":
		var in struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(use.Input, &in); err != nil {
			return "", fmt.Errorf("bad wikipedia input: %w", err)
		}
		a.log.Info("tool call", "tool", "wikipedia", "title", in.Title)
		return a.wiki.Summary(ctx, in.Title)
	default:
		return "", fmt.Errorf("unknown tool %q", use.Name)
	}
}

func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
