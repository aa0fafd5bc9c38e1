package deck

import (
	"strings"
	"testing"
)

func validViz() *VizSpec {
	return &VizSpec{
		PresentationTitle: "Market Analysis",
		Theme:             "navy-gold",
		ExecutiveSummary:  []string{"**Growth:** 20% YoY"},
		Charts: []ChartSpec{
			{Type: "bar", Title: "Revenue", Labels: []string{"Q1", "Q2"}, Data: []float64{10, 12}},
			{Type: "pie", Title: "Share", Labels: []string{"A", "B"}, Data: []float64{60, 40},
				Layout: "chart-insight", InsightText: "A leads the market"},
		},
		Tables: []TableSpec{
			{
				Title:         "Segment Revenue",
				Headers:       []string{"Segment", "Revenue ($M)"},
				Rows:          [][]any{{"Cloud", 12.5}, {"Devices", float64(8)}},
				HighlightRows: []int{0},
			},
		},
		SectionDividers: []string{"Financials"},
	}
}

func TestVizSpec_ValidateOK(t *testing.T) {
	v := validViz()
	if err := v.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Theme != "navy-gold" {
		t.Errorf("theme changed to %q", v.Theme)
	}
}

func TestVizSpec_UnknownThemeFallsBack(t *testing.T) {
	v := validViz()
	v.Theme = "neon-pink"
	if err := v.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Theme != DefaultTheme {
		t.Errorf("theme = %q, want %q", v.Theme, DefaultTheme)
	}
}

func TestVizSpec_ValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*VizSpec)
		want   string
	}{
		{"NoTitle", func(v *VizSpec) { v.PresentationTitle = " " }, "presentation_title"},
		{"NoContent", func(v *VizSpec) { v.Charts, v.Tables = nil, nil }, "at least one chart or table"},
		{"BadType", func(v *VizSpec) { v.Charts[0].Type = "radar" }, "unknown type"},
		{"NoChartTitle", func(v *VizSpec) { v.Charts[0].Title = "" }, "title is required"},
		{"LengthMismatch", func(v *VizSpec) { v.Charts[0].Data = []float64{1} }, "equal length"},
		{"TooManySlices", func(v *VizSpec) {
			v.Charts[1].Labels = []string{"a", "b", "c", "d", "e", "f"}
			v.Charts[1].Data = []float64{1, 2, 3, 4, 5, 6}
		}, "at most 5 slices"},
		{"InsightMissing", func(v *VizSpec) { v.Charts[1].InsightText = "" }, "requires insight_text"},
		{"NoTableTitle", func(v *VizSpec) { v.Tables[0].Title = " " }, "table 0: title is required"},
		{"NoHeaders", func(v *VizSpec) { v.Tables[0].Headers = nil }, "headers are required"},
		{"NoRows", func(v *VizSpec) { v.Tables[0].Rows = nil }, "at least one row"},
		{"RaggedRow", func(v *VizSpec) { v.Tables[0].Rows[1] = []any{"Devices"} }, "row 1 has 1 cells, want 2"},
		{"HighlightOutOfRange", func(v *VizSpec) { v.Tables[0].HighlightRows = []int{5} }, "out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validViz()
			tc.mutate(v)
			err := v.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestPlanViz_Structure(t *testing.T) {
	v := validViz()
	if err := v.Validate(); err != nil {
		t.Fatal(err)
	}
	slides := PlanViz(v)
	// title, summary, divider, bar chart, insight chart, table, closing
	wantLayouts := []string{"title", "summary", "divider", "full-chart", "chart-insight", "table", "closing"}
	if len(slides) != len(wantLayouts) {
		t.Fatalf("got %d slides, want %d", len(slides), len(wantLayouts))
	}
	for i, w := range wantLayouts {
		if slides[i].Layout != w {
			t.Errorf("slide %d layout = %q, want %q", i, slides[i].Layout, w)
		}
	}
	if slides[4].Chart == nil || slides[4].Chart.Insight != "A leads the market" {
		t.Errorf("insight chart wrong: %+v", slides[4].Chart)
	}
	tab := slides[5].Table
	if tab == nil {
		t.Fatal("table slide missing its table")
	}
	if slides[5].Title != "Segment Revenue" || len(tab.Headers) != 2 {
		t.Errorf("table slide wrong: %+v", slides[5])
	}
	if tab.Rows[0][1] != "12.5" || tab.Rows[1][1] != "8" {
		t.Errorf("numeric cells not stringified: %v", tab.Rows)
	}
	if len(tab.Highlight) != 1 || tab.Highlight[0] != 0 {
		t.Errorf("highlight rows = %v", tab.Highlight)
	}
}

func TestVizSpec_TablesOnly(t *testing.T) {
	v := &VizSpec{
		PresentationTitle: "Comparison",
		Tables: []TableSpec{
			{Title: "Feature Matrix", Headers: []string{"Feature", "Supported"}, Rows: [][]any{{"Export", "yes"}}},
		},
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slides := PlanViz(v)
	wantLayouts := []string{"title", "table", "closing"}
	if len(slides) != len(wantLayouts) {
		t.Fatalf("got %d slides, want %d", len(slides), len(wantLayouts))
	}
	for i, w := range wantLayouts {
		if slides[i].Layout != w {
			t.Errorf("slide %d layout = %q, want %q", i, slides[i].Layout, w)
		}
	}
}
