package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Default spacer emitted for each blank line, in points. Blank lines are
// never collapsed; each contributes its own spacer to the vertical rhythm.
const blankLineSpacer = 10.8

// HeadingPolicy decides whether a plain text line should be promoted to a
// level-1 heading, returning the heading text without decoration. The
// default policy catches naturally-written section labels in LLM-authored
// text that doesn't reliably use '#' markup.
type HeadingPolicy func(line string) (string, bool)

// ColonHeadingPolicy promotes short title-cased phrases ending in a colon:
// the line starts with a capital letter, contains no sentence punctuation,
// and is under 60 characters. It may misfire on short declarative
// sentences ending in a colon.
func ColonHeadingPolicy(line string) (string, bool) {
	if len(line) >= 60 || !strings.HasSuffix(line, ":") {
		return "", false
	}
	if line[0] < 'A' || line[0] > 'Z' {
		return "", false
	}
	if strings.ContainsAny(line[:len(line)-1], ".!?") {
		return "", false
	}
	return strings.TrimRight(line, ":"), true
}

// Compositor converts a markdown-like text body into a Document. Each
// Compose call owns its own counters and reference list, so concurrent
// exports must use separate invocations, never shared state.
type Compositor struct {
	// ImageDir resolves relative image paths. Empty means the paths are
	// used as given.
	ImageDir string

	// HeadingPolicy overrides the plain-line heading promotion heuristic.
	// Nil means ColonHeadingPolicy.
	HeadingPolicy HeadingPolicy
}

var (
	imageRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)`)
	tableSep  = regexp.MustCompile(`^\|[\s\-|]+\|$`)
	numListRe = regexp.MustCompile(`^\d+[.)]\s+`)
	urlRe     = regexp.MustCompile(`https?://[^\s)\]]+`)
)

// Compose runs the single-pass scan over the body and returns the
// assembled document. The scanner never aborts on malformed markdown;
// anything unrecognized degrades to the nearest matching block or a plain
// paragraph. A missing title is the one fatal precondition.
func (c *Compositor) Compose(body, title string) (*Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	doc := &Document{Title: title}
	sec := &sectionCounter{}
	refs := newRefList()
	policy := c.HeadingPolicy
	if policy == nil {
		policy = ColonHeadingPolicy
	}

	lines := strings.Split(body, "\n")
	inCode := false
	var codeLines []string
	codeLang := ""

	i := 0
	for i < len(lines) {
		line := lines[i]
		stripped := strings.TrimSpace(line)

		// Code fences dominate every other rule: fenced content is
		// literal and is never reinterpreted as headings, tables or
		// lists.
		if strings.HasPrefix(stripped, "```") {
			if !inCode {
				inCode = true
				codeLang = strings.TrimSpace(stripped[3:])
				codeLines = codeLines[:0]
			} else {
				inCode = false
				doc.Blocks = append(doc.Blocks, CodeBlock{
					Language: codeLang,
					Text:     strings.Join(codeLines, "\n"),
				})
			}
			i++
			continue
		}
		if inCode {
			codeLines = append(codeLines, strings.TrimRight(line, " \t"))
			i++
			continue
		}

		// Tables: consume all consecutive pipe-prefixed lines.
		if strings.HasPrefix(stripped, "|") {
			header, rows, next := scanTable(lines, i)
			if header != nil {
				doc.Blocks = append(doc.Blocks, Table{Header: header, Rows: rows})
				i = next
				continue
			}
			// No real rows (separators only): fall through and let the
			// line degrade to a paragraph.
		}

		// Images: resolve or degrade to a visible placeholder.
		if m := imageRe.FindStringSubmatch(stripped); m != nil {
			doc.Blocks = append(doc.Blocks, c.resolveImage(m[1], m[2]))
			i++
			continue
		}

		// Explicit page breaks.
		if stripped == "---" || stripped == `\pagebreak` || stripped == "<pagebreak>" {
			doc.Blocks = append(doc.Blocks, PageBreak{})
			i++
			continue
		}

		// Blank lines: one spacer each.
		if stripped == "" {
			doc.Blocks = append(doc.Blocks, Spacer{Size: blankLineSpacer})
			i++
			continue
		}

		// Headings, marked or promoted.
		if level, text := headingLine(stripped, policy); level > 0 {
			text = NormalizeScripts(text)
			number := sec.advance(level)
			display := number + ". " + text
			anchor := anchorKey(text)
			doc.TOC = append(doc.TOC, TOCEntry{Level: level, Title: display, Anchor: anchor})
			doc.Blocks = append(doc.Blocks, Heading{
				Level:  level,
				Number: number,
				Text:   display,
				Anchor: anchor,
			})
			i++
			continue
		}

		// Nested bullets before flat ones: the flat check runs on the
		// stripped line and would swallow the indented form.
		if text, ok := bulletText(line, "  "); ok {
			doc.Blocks = append(doc.Blocks, BulletItem{Depth: 1, Text: c.inlineText(text, refs)})
			i++
			continue
		}
		if text, ok := bulletText(stripped, ""); ok {
			doc.Blocks = append(doc.Blocks, BulletItem{Depth: 0, Text: c.inlineText(text, refs)})
			i++
			continue
		}
		if loc := numListRe.FindStringIndex(stripped); loc != nil {
			doc.Blocks = append(doc.Blocks, BulletItem{Depth: 0, Text: c.inlineText(stripped[loc[1]:], refs)})
			i++
			continue
		}

		// Everything else is a plain paragraph.
		doc.Blocks = append(doc.Blocks, Paragraph{Text: c.inlineText(stripped, refs)})
		i++
	}

	// Unterminated fence: emit what was captured rather than dropping it.
	if inCode && len(codeLines) > 0 {
		doc.Blocks = append(doc.Blocks, CodeBlock{Language: codeLang, Text: strings.Join(codeLines, "\n")})
	}

	doc.References = refs.urls
	return doc, nil
}

// inlineText normalizes a textual token and wraps URLs as link spans,
// recording each distinct URL in first-encountered order. Normalization
// runs first so link markup is never itself script-mangled.
func (c *Compositor) inlineText(text string, refs *refList) string {
	text = NormalizeScripts(text)
	return urlRe.ReplaceAllStringFunc(text, func(u string) string {
		refs.add(u)
		return `<a href="` + u + `">` + u + `</a>`
	})
}

// scanTable consumes consecutive pipe-prefixed lines starting at idx.
// Separator rows (dashes and pipes only) are skipped. The first data row
// becomes the header. Returns a nil header when no data rows were found.
func scanTable(lines []string, idx int) (header []string, rows [][]string, next int) {
	for idx < len(lines) {
		line := strings.TrimSpace(lines[idx])
		if !strings.HasPrefix(line, "|") {
			break
		}
		if tableSep.MatchString(line) {
			idx++
			continue
		}
		cells := strings.Split(line, "|")
		// Leading and trailing pipes produce empty outer cells.
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
			cells = cells[1:]
		}
		if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
			cells = cells[:len(cells)-1]
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = NormalizeScripts(strings.TrimSpace(cell))
		}
		if header == nil {
			header = row
		} else {
			rows = append(rows, row)
		}
		idx++
	}
	return header, rows, idx
}

// headingLine reports the heading level of a stripped line, or 0.
func headingLine(stripped string, policy HeadingPolicy) (int, string) {
	switch {
	case strings.HasPrefix(stripped, "### "):
		return 3, stripped[4:]
	case strings.HasPrefix(stripped, "## "):
		return 2, stripped[3:]
	case strings.HasPrefix(stripped, "# "):
		return 1, stripped[2:]
	}
	if text, ok := policy(stripped); ok {
		return 1, text
	}
	return 0, ""
}

// bulletText matches "- ", "* " or a bullet glyph after the given indent
// prefix and returns the item text.
func bulletText(line, indent string) (string, bool) {
	if !strings.HasPrefix(line, indent) {
		return "", false
	}
	rest := line[len(indent):]
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(rest, marker) {
			return strings.TrimSpace(rest[len(marker):]), true
		}
	}
	return "", false
}

// resolveImage checks the image path on disk, joining relative paths
// against ImageDir. An unresolvable path degrades to an ImageError block;
// it never fails the export.
func (c *Compositor) resolveImage(alt, path string) Block {
	resolved := path
	if !filepath.IsAbs(resolved) && c.ImageDir != "" {
		resolved = filepath.Join(c.ImageDir, resolved)
	}
	if _, err := os.Stat(resolved); err != nil {
		return ImageError{Message: fmt.Sprintf("Image not found: %s", resolved)}
	}
	return ImageRef{Path: resolved, Alt: alt}
}

// refList is an ordered, deduplicated URL set. Insertion order is the
// first-encountered order across the whole scan; one-based positions are
// the in-text citation numbers.
type refList struct {
	urls []string
	seen map[string]bool
}

func newRefList() *refList {
	return &refList{seen: make(map[string]bool)}
}

func (r *refList) add(url string) {
	if r.seen[url] {
		return
	}
	r.seen[url] = true
	r.urls = append(r.urls, url)
}
