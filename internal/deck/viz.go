package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Theme is a named color palette applied uniformly across a deck.
type Theme struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Accent    string   `json:"accent"`
	Text      string   `json:"text"`
	Light     string   `json:"light"`
	Series    []string `json:"series"`
}

// Themes holds the built-in corporate palettes, keyed by name.
var Themes = map[string]Theme{
	"navy-teal": {
		Primary:   "1F3864",
		Secondary: "2E75B6",
		Accent:    "00B0A6",
		Text:      "333333",
		Light:     "F2F6FA",
		Series:    []string{"1F3864", "00B0A6", "2E75B6", "8FAADC", "BDD7EE"},
	},
	"navy-gold": {
		Primary:   "203864",
		Secondary: "2F5597",
		Accent:    "C9A227",
		Text:      "333333",
		Light:     "FAF6EC",
		Series:    []string{"203864", "C9A227", "2F5597", "B4C7E7", "E2CC85"},
	},
	"charcoal-blue": {
		Primary:   "31353B",
		Secondary: "4472C4",
		Accent:    "5B9BD5",
		Text:      "3B3B3B",
		Light:     "F2F2F2",
		Series:    []string{"31353B", "4472C4", "5B9BD5", "A6A6A6", "D6DCE5"},
	},
}

// DefaultTheme is used when a visualization spec names no theme or an
// unknown one.
const DefaultTheme = "navy-teal"

var chartTypes = map[string]bool{
	"bar":      true,
	"line":     true,
	"pie":      true,
	"doughnut": true,
	"area":     true,
}

// ChartSpec is one chart requested by the research agent.
type ChartSpec struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Labels      []string  `json:"labels"`
	Data        []float64 `json:"data"`
	InsightText string    `json:"insight_text,omitempty"`
	Layout      string    `json:"layout,omitempty"`
}

// TableSpec is one data table requested by the research agent. Cells may
// arrive as JSON strings or numbers; highlight_rows indexes are 0-based.
type TableSpec struct {
	Title         string   `json:"title"`
	Headers       []string `json:"headers"`
	Rows          [][]any  `json:"rows"`
	HighlightRows []int    `json:"highlight_rows,omitempty"`
}

// VizSpec describes a data-visualization deck. It arrives as JSON inside
// the agent's final answer.
type VizSpec struct {
	PresentationTitle string      `json:"presentation_title"`
	Theme             string      `json:"theme,omitempty"`
	ExecutiveSummary  []string    `json:"executive_summary,omitempty"`
	Charts            []ChartSpec `json:"charts,omitempty"`
	Tables            []TableSpec `json:"tables,omitempty"`
	SectionDividers   []string    `json:"section_dividers,omitempty"`
}

// Validate checks the visualization request and normalizes the theme
// name. It reports the first problem found.
func (v *VizSpec) Validate() error {
	if strings.TrimSpace(v.PresentationTitle) == "" {
		return fmt.Errorf("visualization: presentation_title is required")
	}
	if _, ok := Themes[v.Theme]; !ok {
		v.Theme = DefaultTheme
	}
	if len(v.Charts) == 0 && len(v.Tables) == 0 {
		return fmt.Errorf("visualization: at least one chart or table is required")
	}
	for i, c := range v.Charts {
		if !chartTypes[c.Type] {
			return fmt.Errorf("visualization: chart %d: unknown type %q", i, c.Type)
		}
		if strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("visualization: chart %d: title is required", i)
		}
		if len(c.Labels) == 0 || len(c.Labels) != len(c.Data) {
			return fmt.Errorf("visualization: chart %d: labels and data must be non-empty and equal length", i)
		}
		if (c.Type == "pie" || c.Type == "doughnut") && len(c.Data) > 5 {
			return fmt.Errorf("visualization: chart %d: %s charts support at most 5 slices", i, c.Type)
		}
		if c.Layout == layoutInsight && strings.TrimSpace(c.InsightText) == "" {
			return fmt.Errorf("visualization: chart %d: chart-insight layout requires insight_text", i)
		}
	}
	for i, t := range v.Tables {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("visualization: table %d: title is required", i)
		}
		if len(t.Headers) == 0 {
			return fmt.Errorf("visualization: table %d: headers are required", i)
		}
		if len(t.Rows) == 0 {
			return fmt.Errorf("visualization: table %d: at least one row is required", i)
		}
		for j, row := range t.Rows {
			if len(row) != len(t.Headers) {
				return fmt.Errorf("visualization: table %d: row %d has %d cells, want %d", i, j, len(row), len(t.Headers))
			}
		}
		for _, h := range t.HighlightRows {
			if h < 0 || h >= len(t.Rows) {
				return fmt.Errorf("visualization: table %d: highlight row %d out of range", i, h)
			}
		}
	}
	return nil
}

// PlanViz turns a validated request into a slide plan: title, optional
// executive summary, charts with optional section dividers interleaved
// ahead of each chart, then data tables.
func PlanViz(v *VizSpec) []Slide {
	slides := []Slide{{Layout: layoutTitle, Title: v.PresentationTitle, Subtitle: "Data Visualization"}}

	if len(v.ExecutiveSummary) > 0 {
		bullets := make([]Bullet, 0, len(v.ExecutiveSummary))
		for _, line := range v.ExecutiveSummary {
			bullets = append(bullets, bulletRuns(line))
		}
		slides = append(slides, Slide{Layout: layoutSummary, Title: "Executive Summary", Bullets: bullets})
	}

	for i, c := range v.Charts {
		if i < len(v.SectionDividers) && strings.TrimSpace(v.SectionDividers[i]) != "" {
			slides = append(slides, Slide{Layout: layoutDivider, Title: v.SectionDividers[i]})
		}
		layout := c.Layout
		if layout != layoutInsight {
			layout = layoutChart
		}
		slides = append(slides, Slide{
			Layout: layout,
			Title:  c.Title,
			Chart: &Chart{
				Type:    c.Type,
				Title:   c.Title,
				Labels:  c.Labels,
				Values:  c.Data,
				Insight: c.InsightText,
			},
		})
	}

	for _, t := range v.Tables {
		rows := make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = cellText(c)
			}
			rows[i] = cells
		}
		slides = append(slides, Slide{
			Layout: layoutTable,
			Title:  t.Title,
			Table:  &Table{Headers: t.Headers, Rows: rows, Highlight: t.HighlightRows},
		})
	}

	slides = append(slides, Slide{Layout: layoutClosing, Title: "Thank You"})
	return slides
}

// cellText renders a decoded JSON cell as display text. Numbers drop the
// float64 round-trip noise (2.0 prints as "2").
func cellText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
