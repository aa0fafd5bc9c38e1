package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Letter page geometry in points.
const (
	pageW   = 612.0
	pageH   = 792.0
	marginX = 54.0 // 0.75 in
	marginY = 72.0 // 1 in
)

// Renderer lays a Document out as a paginated PDF via gofpdf. The ToC
// needs final page numbers before the document is finalized, so rendering
// runs twice: the first pass records the page each heading lands on, the
// second draws the ToC with resolved numbers and internal links.
type Renderer struct {
	Author string // cover "prepared by" label and PDF author metadata

	// Now supplies the cover date; nil means time.Now.
	Now func() time.Time
}

func (r *Renderer) author() string {
	if r.Author == "" {
		return "Research Agent"
	}
	return r.Author
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Render writes the document to path. The layout engine either produces a
// complete file or returns an error with nothing usable on disk.
func (r *Renderer) Render(doc *Document, path string) error {
	pages, err := r.pass(doc, nil, "")
	if err != nil {
		return fmt.Errorf("layout pass: %w", err)
	}
	if _, err := r.pass(doc, pages, path); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// pass runs one full layout. With headingPages nil this is the discovery
// pass: ToC page numbers render as zero and the returned slice maps ToC
// entry positions to pages. With headingPages set the ToC is final and,
// when outPath is non-empty, the file is written.
func (r *Renderer) pass(doc *Document, headingPages []int, outPath string) ([]int, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(r.author(), true)
	pdf.SetSubject("Research Report: "+doc.Title, true)
	pdf.SetCreator(r.author()+" PDF Generator", true)
	pdf.AliasNbPages("")
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFooterFunc(func() {
		pdf.SetDrawColor(70, 130, 180)
		pdf.SetLineWidth(1)
		pdf.Line(marginX, pageH-43, pageW-marginX, pageH-43)
		pdf.SetY(-38)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 12, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	r.renderCover(pdf, tr, doc.Title)
	r.renderTOC(pdf, tr, doc.TOC, headingPages)

	pdf.AddPage()
	var pages []int
	for _, b := range doc.Blocks {
		switch b := b.(type) {
		case Heading:
			r.renderHeading(pdf, tr, b)
			pages = append(pages, pdf.PageNo())
		case Paragraph:
			pdf.SetX(marginX)
			r.writeSpans(pdf, tr, b.Text, 10)
		case BulletItem:
			indent, glyph := 25.0, "• "
			if b.Depth == 1 {
				indent, glyph = 40.0, "· "
			}
			pdf.SetX(marginX + indent)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(51, 51, 51)
			pdf.Write(13, tr(glyph))
			r.writeSpans(pdf, tr, b.Text, 10)
		case Table:
			r.renderTable(pdf, tr, b)
		case CodeBlock:
			r.renderCode(pdf, tr, b)
		case ImageRef:
			r.renderImage(pdf, tr, b)
		case ImageError:
			r.renderNote(pdf, tr, "["+b.Message+"]")
		case PageBreak:
			pdf.AddPage()
		case Spacer:
			pdf.Ln(b.Size)
		}
	}

	if len(doc.References) > 0 {
		r.renderReferences(pdf, tr, doc.References)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	if outPath == "" {
		return pages, nil
	}
	return pages, pdf.OutputFileAndClose(outPath)
}

func (r *Renderer) renderCover(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.AddPage()
	pdf.Ln(144)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(41, 65, 114)
	pdf.MultiCell(0, 34, tr(title), "", "C", false)
	pdf.Ln(64)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(70, 130, 180)
	pdf.CellFormat(0, 18, "Prepared by", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(41, 65, 114)
	pdf.CellFormat(0, 22, tr(r.author()), "", 1, "C", false, 0, "")
	pdf.Ln(64)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 16, r.now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
}

// ToC level styles: font size, bold, indent, color.
var tocStyles = [3]struct {
	size    float64
	style   string
	indent  float64
	r, g, b int
}{
	{12, "B", 0, 41, 65, 114},
	{10, "", 20, 70, 130, 180},
	{9, "", 40, 102, 102, 102},
}

func (r *Renderer) renderTOC(pdf *gofpdf.Fpdf, tr func(string) string, toc []TOCEntry, headingPages []int) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(41, 65, 114)
	pdf.CellFormat(0, 24, "Table of Contents", "", 1, "C", false, 0, "")
	pdf.Ln(14)

	contentW := pageW - 2*marginX
	for i, e := range toc {
		level := e.Level
		if level < 1 || level > 3 {
			level = 3
		}
		st := tocStyles[level-1]
		pdf.SetFont("Helvetica", st.style, st.size)
		pdf.SetTextColor(st.r, st.g, st.b)
		pdf.SetX(marginX + st.indent)

		page := 0
		link := 0
		if i < len(headingPages) {
			page = headingPages[i]
			link = pdf.AddLink()
			pdf.SetLink(link, 0, page)
		}
		titleW := contentW*0.85 - st.indent
		pdf.CellFormat(titleW, 15, tr(plainText(e.Title)), "", 0, "L", false, link, "")
		pdf.CellFormat(contentW*0.15, 15, fmt.Sprintf("... %d", page), "", 1, "R", false, link, "")
	}
}

func (r *Renderer) renderHeading(pdf *gofpdf.Fpdf, tr func(string) string, h Heading) {
	if h.Level == 1 {
		pdf.Ln(16)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(41, 65, 114)
		pdf.MultiCell(0, 17, tr(plainText(h.Text)), "", "L", false)
		pdf.Ln(8)
		return
	}
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(70, 130, 180)
	pdf.MultiCell(0, 15, tr(plainText(h.Text)), "", "L", false)
	pdf.Ln(5)
}

// writeSpans renders marked-up text as a flowing line sequence: plain
// runs, underlined blue hyperlinks, and sub/superscript runs drawn in a
// reduced font with a vertical offset.
func (r *Renderer) writeSpans(pdf *gofpdf.Fpdf, tr func(string) string, text string, size float64) {
	const lh = 13.0
	for _, s := range parseSpans(text) {
		switch s.kind {
		case spanPlain:
			pdf.SetFont("Helvetica", "", size)
			pdf.SetTextColor(51, 51, 51)
			pdf.Write(lh, tr(s.text))
		case spanLink:
			pdf.SetFont("Helvetica", "U", size)
			pdf.SetTextColor(0, 102, 204)
			pdf.WriteLinkString(lh, tr(s.text), s.href)
		case spanSub, spanSup:
			off := size * 0.25
			if s.kind == spanSup {
				off = -size * 0.35
			}
			x, y := pdf.GetX(), pdf.GetY()
			pdf.SetFont("Helvetica", "", size*0.7)
			pdf.SetTextColor(51, 51, 51)
			pdf.SetXY(x, y+off)
			pdf.Write(lh, tr(s.text))
			pdf.SetXY(pdf.GetX(), y)
		}
	}
	pdf.Ln(lh + 3)
}

func (r *Renderer) renderTable(pdf *gofpdf.Fpdf, tr func(string) string, t Table) {
	cols := len(t.Header)
	if cols == 0 {
		for _, row := range t.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
	}
	if cols == 0 {
		return
	}
	availW := pageW - 2*marginX
	colW := availW / float64(cols)
	lineHt := 13.0

	pdf.Ln(6)
	pdf.SetDrawColor(204, 204, 204)

	// Header row: steel blue fill, white bold, centered.
	if len(t.Header) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(70, 130, 180)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Header {
			pdf.CellFormat(colW, lineHt+8, tr(plainText(h)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(lineHt + 8)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(51, 51, 51)
	fill := false
	for _, row := range t.Rows {
		maxLines := 1
		for _, cell := range row {
			if n := len(pdf.SplitText(tr(plainText(cell)), colW-6)); n > maxLines {
				maxLines = n
			}
		}
		ht := float64(maxLines)*lineHt + 4

		y := pdf.GetY()
		if y+ht > pageH-marginY {
			pdf.AddPage()
			y = pdf.GetY()
		}
		if fill {
			pdf.SetFillColor(248, 248, 248)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for i, cell := range row {
			if i >= cols {
				break
			}
			cx := marginX + float64(i)*colW
			pdf.Rect(cx, y, colW, ht, "FD")
			pdf.SetXY(cx+3, y+2)
			pdf.MultiCell(colW-6, lineHt, tr(plainText(cell)), "", "L", false)
		}
		pdf.SetXY(marginX, y+ht)
		fill = !fill
	}
	pdf.Ln(10)
}

func (r *Renderer) renderCode(pdf *gofpdf.Fpdf, tr func(string) string, c CodeBlock) {
	availW := pageW - 2*marginX
	pdf.Ln(6)
	if c.Language != "" && c.Language != "text" {
		pdf.SetFont("Courier", "B", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.SetX(marginX + 14)
		pdf.CellFormat(0, 10, "["+c.Language+"]", "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Courier", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 245)
	for _, line := range splitLines(c.Text) {
		wrapped := pdf.SplitText(tr(line), availW-28)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		for _, wl := range wrapped {
			pdf.SetX(marginX + 14)
			pdf.CellFormat(availW-28, 12, wl, "", 1, "L", true, 0, "")
		}
	}
	pdf.Ln(8)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func (r *Renderer) renderImage(pdf *gofpdf.Fpdf, tr func(string) string, img ImageRef) {
	opts := gofpdf.ImageOptions{ReadDpi: true}
	pdf.RegisterImageOptions(img.Path, opts)
	if pdf.Err() {
		// A corrupt file degrades the same way a missing one does.
		msg := fmt.Sprintf("[Error loading image: %s]", img.Path)
		pdf.ClearError()
		r.renderNote(pdf, tr, msg)
		return
	}
	pdf.Ln(6)
	// 6in wide, height kept proportional by the engine.
	pdf.ImageOptions(img.Path, (pageW-432)/2, 0, 432, 0, true, opts, 0, "")
	pdf.Ln(12)
}

func (r *Renderer) renderNote(pdf *gofpdf.Fpdf, tr func(string) string, msg string) {
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetX(marginX)
	pdf.MultiCell(0, 13, tr(msg), "", "L", true)
	pdf.Ln(6)
}

func (r *Renderer) renderReferences(pdf *gofpdf.Fpdf, tr func(string) string, refs []string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(41, 65, 114)
	pdf.CellFormat(0, 22, "References", "", 1, "L", false, 0, "")
	pdf.Ln(10)
	for i, url := range refs {
		pdf.SetX(marginX)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(51, 51, 51)
		pdf.Write(13, fmt.Sprintf("[%d] ", i+1))
		pdf.SetFont("Helvetica", "U", 9)
		pdf.SetTextColor(0, 102, 204)
		pdf.WriteLinkString(13, tr(url), url)
		pdf.Ln(17)
	}
}
