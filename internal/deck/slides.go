package deck

import "strings"

// Slide layouts understood by the pptxgenjs driver script. The plan below
// is data; the script just walks it.
const (
	layoutTitle   = "title"
	layoutBullets = "bullets"
	layoutDivider = "divider"
	layoutSummary = "summary"
	layoutChart   = "full-chart"
	layoutInsight = "chart-insight"
	layoutTable   = "table"
	layoutClosing = "closing"
)

// TextRun is a styled fragment of a bullet line.
type TextRun struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Bullet is one bulleted line on a slide.
type Bullet struct {
	Runs []TextRun `json:"runs"`
}

// Chart carries one chart's data onto a slide.
type Chart struct {
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"`
	Insight string    `json:"insight,omitempty"`
}

// Table carries one data table onto a slide. Rows are stringified by the
// planner; the driver script only styles them.
type Table struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	Highlight []int      `json:"highlight,omitempty"`
}

// Slide is one entry in the deck plan.
type Slide struct {
	Layout   string   `json:"layout"`
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Bullets  []Bullet `json:"bullets,omitempty"`
	Chart    *Chart   `json:"chart,omitempty"`
	Table    *Table   `json:"table,omitempty"`
}

// Slides per content section before overflowing to a continuation slide.
const maxBulletsPerSlide = 6

// PlanReport turns heading-delimited sections into a slide plan: title
// slide, one or more bullet slides per section, closing slide.
func PlanReport(title string, sections []Section) []Slide {
	slides := []Slide{{Layout: layoutTitle, Title: title, Subtitle: "Research Report"}}

	for _, sec := range sections {
		secTitle := sec.Title
		if secTitle == "" {
			secTitle = "Overview"
		}
		bullets := make([]Bullet, 0, len(sec.Lines))
		for _, line := range sec.Lines {
			bullets = append(bullets, bulletRuns(line))
		}
		if len(bullets) == 0 {
			continue
		}
		for start := 0; start < len(bullets); start += maxBulletsPerSlide {
			end := start + maxBulletsPerSlide
			if end > len(bullets) {
				end = len(bullets)
			}
			t := secTitle
			if start > 0 {
				t += " (cont.)"
			}
			slides = append(slides, Slide{Layout: layoutBullets, Title: t, Bullets: bullets[start:end]})
		}
	}

	slides = append(slides, Slide{Layout: layoutClosing, Title: "Thank You"})
	return slides
}

// bulletRuns splits "**Key:** description" lines into a bold lead run and
// a plain remainder; everything else is a single plain run with bold
// markers stripped.
func bulletRuns(line string) Bullet {
	if strings.HasPrefix(line, "**") {
		if idx := strings.Index(line, ":**"); idx > 2 {
			lead := line[2:idx] + ": "
			rest := strings.TrimSpace(line[idx+3:])
			return Bullet{Runs: []TextRun{{Text: lead, Bold: true}, {Text: rest}}}
		}
	}
	return Bullet{Runs: []TextRun{{Text: strings.ReplaceAll(line, "**", "")}}}
}
