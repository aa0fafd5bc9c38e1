// Package report turns markdown-like research text into a paginated,
// numbered PDF report with a cover page, table of contents and a
// references appendix.
package report

// Block is one discrete content unit in the document's linear body.
type Block interface {
	block()
}

// Heading is a numbered section heading, levels 1-3.
type Heading struct {
	Level  int
	Number string // dot-joined section number, e.g. "2.1"
	Text   string // display text, "2.1. Title"
	Anchor string // normalized anchor key for ToC cross-references
}

// Paragraph is body text. Text may carry inline markup spans
// (<a href>, <sub>, <sup>) produced by the scanner.
type Paragraph struct {
	Text string
}

// BulletItem is a list item at depth 0 or 1. Numbered-list markers are
// normalized to depth-0 bullets; list numbering is not preserved.
type BulletItem struct {
	Depth int
	Text  string
}

// Table holds a header row and body rows parsed from pipe-delimited lines.
type Table struct {
	Header []string
	Rows   [][]string
}

// CodeBlock is a fenced code block. Content is literal: it is never
// reinterpreted as headings, tables or lists, and never normalized.
type CodeBlock struct {
	Language string
	Text     string
}

// ImageRef points at an image file that exists on disk.
type ImageRef struct {
	Path string
	Alt  string
}

// ImageError replaces an image whose path did not resolve. The export
// continues; the message is rendered as a visible placeholder.
type ImageError struct {
	Message string
}

// PageBreak forces a new page.
type PageBreak struct{}

// Spacer is a fixed vertical gap. Consecutive blank lines each produce
// their own spacer.
type Spacer struct {
	Size float64 // points
}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (BulletItem) block() {}
func (Table) block()      {}
func (CodeBlock) block()  {}
func (ImageRef) block()   {}
func (ImageError) block() {}
func (PageBreak) block()  {}
func (Spacer) block()     {}

// TOCEntry is one table-of-contents line, recorded as headings are scanned.
// Page numbers are resolved by the renderer's first layout pass.
type TOCEntry struct {
	Level  int
	Title  string
	Anchor string
}

// Document is the fully scanned document, ready for layout.
type Document struct {
	Title      string
	Blocks     []Block
	TOC        []TOCEntry
	References []string // deduplicated URLs in first-encountered order
}
