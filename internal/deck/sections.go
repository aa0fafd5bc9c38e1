// Package deck generates PowerPoint decks from research text by driving
// pptxgenjs in a node subprocess. Slide layout rules live in data (the
// slide plan and theme tables), not in the JavaScript.
package deck

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading-delimited run of content.
type Section struct {
	Title string
	Level int
	Lines []string
}

// SplitSections walks the markdown AST and groups content lines under
// their nearest heading. Text before the first heading lands in an
// untitled leading section.
func SplitSections(body string) []Section {
	src := []byte(body)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var sections []Section
	cur := Section{}
	flush := func() {
		if cur.Title != "" || len(cur.Lines) > 0 {
			sections = append(sections, cur)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			cur = Section{Title: string(node.Text(src)), Level: node.Level}
		case *ast.List:
			// Each list item becomes its own line so slides can bullet
			// them individually.
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				if t := nodeText(li, src); t != "" {
					cur.Lines = append(cur.Lines, t)
				}
			}
		default:
			for _, line := range strings.Split(nodeText(n, src), "\n") {
				if s := strings.TrimSpace(line); s != "" {
					cur.Lines = append(cur.Lines, s)
				}
			}
		}
	}
	flush()
	return sections
}

// nodeText flattens the text content of a goldmark AST node. Block nodes
// with source lines yield those lines directly; container nodes recurse.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
			buf.WriteByte('\n')
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := nodeText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
