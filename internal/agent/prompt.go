package agent

import "strings"

const systemPrompt = `You are a research assistant. Investigate the user's topic using the
available tools, then produce a structured research report.

Work method:
1. Use web_search to find current information on the topic.
2. Use wikipedia for background and established facts.
3. Cross-check claims across sources before including them.

When you have gathered enough material, respond with ONLY a JSON object
inside a json code fence, with these fields:

{
  "topic": "the research topic",
  "summary": "2-3 sentence executive summary",
  "report": "full markdown report with # headings, bullet points, and tables where useful",
  "sources": ["url1", "url2"]
}

Report requirements:
- Start the report with a line naming the topic.
- Use # for major sections, ## and ### for subsections.
- Cite sources inline as bare URLs.
- Keep technical notation (chemical formulas, exponents) in plain unicode.`

const vizPromptAddendum = `

The user also wants a data visualization deck. Add a "visualization"
field to the JSON with this shape:

"visualization": {
  "presentation_title": "...",
  "theme": "navy-teal" | "navy-gold" | "charcoal-blue",
  "executive_summary": ["bullet", ...],
  "charts": [
    {
      "type": "bar" | "line" | "pie" | "doughnut" | "area",
      "title": "...",
      "labels": ["..."],
      "data": [1, 2],
      "layout": "chart-insight",
      "insight_text": "required when layout is chart-insight"
    }
  ],
  "tables": [
    {
      "title": "...",
      "headers": ["Col A", "Col B"],
      "rows": [["text", 1.5], ["text", 2]],
      "highlight_rows": [0]
    }
  ],
  "section_dividers": ["optional divider title per chart"]
}

Use real figures from your research. Pie and doughnut charts take at
most 5 slices. Tables are optional; every row must match the headers in
length, and highlight_rows indexes are 0-based. Include at least one
chart or table.`

// SystemPrompt builds the system prompt, optionally asking for a
// visualization spec.
func SystemPrompt(includeViz bool) string {
	if includeViz {
		return systemPrompt + vizPromptAddendum
	}
	return systemPrompt
}

// toolDefs describes the research tools offered on every request.
func toolDefs() []Tool {
	return []Tool{
		{
			Name:        "web_search",
			Description: "Search the web for current information. Returns titles, URLs, and snippets.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "wikipedia",
			Description: "Look up a topic on Wikipedia. Returns the article summary.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The article title to look up",
					},
				},
				"required": []string{"title"},
			},
		},
	}
}

// userPrompt phrases the research request.
func userPrompt(query string) string {
	return "Research this topic and produce a report: " + strings.TrimSpace(query)
}
