package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/researchd/internal/deck"
)

// Result is the structured outcome of a research run.
type Result struct {
	Topic         string        `json:"topic"`
	Summary       string        `json:"summary"`
	Report        string        `json:"report"`
	Sources       []string      `json:"sources"`
	ToolsUsed     []string      `json:"tools_used,omitempty"`
	Visualization *deck.VizSpec `json:"visualization,omitempty"`
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ParseResult decodes the model's final answer. The JSON may arrive bare
// or wrapped in a code fence, possibly with prose around it.
func ParseResult(text string) (*Result, error) {
	candidate := stripCodeBlock(text)
	if !strings.HasPrefix(strings.TrimSpace(candidate), "{") {
		// Fish the fenced block out of surrounding prose.
		if m := embeddedFenceRe.FindStringSubmatch(text); len(m) > 1 {
			candidate = m[1]
		}
	}

	var res Result
	if err := json.Unmarshal([]byte(candidate), &res); err != nil {
		return nil, fmt.Errorf("parse result json: %w (raw: %s)", err, truncate(candidate, 200))
	}
	if strings.TrimSpace(res.Report) == "" {
		return nil, fmt.Errorf("result has no report")
	}
	if strings.TrimSpace(res.Topic) == "" {
		res.Topic = firstLine(res.Report)
	}
	return &res, nil
}

var embeddedFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return "Research Report"
}
