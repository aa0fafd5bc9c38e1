package deck

import (
	"bytes"
	"encoding/json"
	"text/template"
)

// The driver script is generated, not hand-maintained: all slide content
// and styling arrives as embedded JSON, and the script only dispatches on
// slide.layout. It requires pptxgenjs to be installed where node runs.
var jsTemplate = template.Must(template.New("pptx").Parse(`const pptxgen = require("pptxgenjs");

const theme = {{.Theme}};
const slides = {{.Slides}};
const author = {{.Author}};
const outPath = {{.OutPath}};

const pres = new pptxgen();
pres.layout = "LAYOUT_16x9";
pres.author = author;

const chartTypes = {
  bar: pres.ChartType.bar,
  line: pres.ChartType.line,
  pie: pres.ChartType.pie,
  doughnut: pres.ChartType.doughnut,
  area: pres.ChartType.area,
};

function runsToText(runs) {
  return runs.map((r) => ({ text: r.text, options: { bold: !!r.bold } }));
}

function addBullets(slide, bullets, opts) {
  const items = bullets.map((b) => ({
    text: runsToText(b.runs),
    options: { bullet: { code: "2022" }, paraSpaceAfter: 8 },
  }));
  slide.addText(items, Object.assign({
    x: 0.6, y: 1.3, w: 8.8, h: 3.8,
    fontSize: 16, color: theme.text, valign: "top",
  }, opts));
}

function addChart(slide, chart, opts) {
  const data = [{ name: chart.title, labels: chart.labels, values: chart.values }];
  const chartOpts = Object.assign({
    x: 0.6, y: 1.2, w: 8.8, h: 3.9,
    chartColors: theme.series,
    showLegend: chart.type === "pie" || chart.type === "doughnut",
    legendPos: "r",
    dataLabelColor: theme.text,
  }, opts);
  if (chart.type === "pie" || chart.type === "doughnut") {
    chartOpts.showPercent = true;
  } else {
    chartOpts.showValue = true;
    chartOpts.catAxisLabelColor = theme.text;
    chartOpts.valAxisLabelColor = theme.text;
  }
  slide.addChart(chartTypes[chart.type], data, chartOpts);
}

function addTable(slide, table) {
  const highlights = new Set(table.highlight || []);
  const rows = [
    table.headers.map((h) => ({
      text: h,
      options: { bold: true, fontSize: 12, color: "FFFFFF", fill: { color: theme.primary }, align: "center" },
    })),
  ];
  (table.rows || []).forEach((cells, i) => {
    rows.push(cells.map((c) => {
      const opts = { fontSize: 11, color: theme.text, align: "center" };
      if (highlights.has(i)) {
        opts.fill = { color: theme.accent, transparency: 70 };
      }
      return { text: c, options: opts };
    }));
  });
  slide.addTable(rows, {
    x: 0.5, y: 1.3, w: 9, h: 3.5,
    border: { type: "solid", pt: 1, color: theme.accent },
    fontSize: 11,
  });
}

function header(slide, title) {
  slide.addText(title, {
    x: 0.6, y: 0.35, w: 8.8, h: 0.7,
    fontSize: 26, bold: true, color: theme.primary,
  });
  slide.addShape(pres.ShapeType.rect, {
    x: 0.6, y: 1.05, w: 2.0, h: 0.05, fill: { color: theme.accent },
  });
}

for (const s of slides) {
  const slide = pres.addSlide();
  switch (s.layout) {
    case "title":
      slide.background = { color: theme.primary };
      slide.addText(s.title, {
        x: 0.6, y: 1.8, w: 8.8, h: 1.2,
        fontSize: 36, bold: true, color: "FFFFFF", align: "center",
      });
      if (s.subtitle) {
        slide.addText(s.subtitle, {
          x: 0.6, y: 3.0, w: 8.8, h: 0.6,
          fontSize: 18, color: theme.accent === "C9A227" ? theme.accent : "D9E2F3",
          align: "center",
        });
      }
      break;
    case "divider":
      slide.background = { color: theme.secondary };
      slide.addText(s.title, {
        x: 0.6, y: 2.3, w: 8.8, h: 1.0,
        fontSize: 30, bold: true, color: "FFFFFF", align: "center",
      });
      break;
    case "summary":
      slide.background = { color: theme.light };
      header(slide, s.title);
      addBullets(slide, s.bullets || []);
      break;
    case "bullets":
      header(slide, s.title);
      addBullets(slide, s.bullets || []);
      break;
    case "full-chart":
      header(slide, s.title);
      addChart(slide, s.chart);
      break;
    case "chart-insight":
      header(slide, s.title);
      addChart(slide, s.chart, { x: 0.6, y: 1.2, w: 5.6, h: 3.9 });
      slide.addShape(pres.ShapeType.rect, {
        x: 6.5, y: 1.2, w: 2.9, h: 3.9, fill: { color: theme.light },
      });
      slide.addText("Key Insight", {
        x: 6.7, y: 1.4, w: 2.5, h: 0.4,
        fontSize: 14, bold: true, color: theme.primary,
      });
      slide.addText(s.chart.insight || "", {
        x: 6.7, y: 1.9, w: 2.5, h: 3.0,
        fontSize: 12, color: theme.text, valign: "top",
      });
      break;
    case "table":
      header(slide, s.title);
      addTable(slide, s.table);
      break;
    case "closing":
      slide.background = { color: theme.primary };
      slide.addText(s.title, {
        x: 0.6, y: 2.3, w: 8.8, h: 1.0,
        fontSize: 34, bold: true, color: "FFFFFF", align: "center",
      });
      break;
  }
}

pres.writeFile({ fileName: outPath }).catch((err) => {
  console.error(err);
  process.exit(1);
});
`))

type jsParams struct {
	Theme   string
	Slides  string
	Author  string
	OutPath string
}

// renderScript produces the node script for one deck. All dynamic values
// are JSON-encoded so the script body never needs escaping.
func renderScript(theme Theme, slides []Slide, author, outPath string) ([]byte, error) {
	tj, err := json.Marshal(theme)
	if err != nil {
		return nil, err
	}
	sj, err := json.Marshal(slides)
	if err != nil {
		return nil, err
	}
	aj, err := json.Marshal(author)
	if err != nil {
		return nil, err
	}
	oj, err := json.Marshal(outPath)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = jsTemplate.Execute(&buf, jsParams{
		Theme:   string(tj),
		Slides:  string(sj),
		Author:  string(aj),
		OutPath: string(oj),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
