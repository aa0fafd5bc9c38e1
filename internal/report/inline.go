package report

import "regexp"

// Inline markup produced by the scanner: hyperlinks and sub/superscript
// spans. The renderer walks these spans instead of feeding raw tags to
// the layout engine.
type spanKind int

const (
	spanPlain spanKind = iota
	spanLink
	spanSub
	spanSup
)

type span struct {
	kind spanKind
	text string
	href string // spanLink only
}

var inlineRe = regexp.MustCompile(`<a href="([^"]*)">([^<]*)</a>|<sub>([^<]*)</sub>|<sup>([^<]*)</sup>`)

// parseSpans splits marked-up text into an ordered span sequence.
// Unmarked text passes through as a single plain span.
func parseSpans(text string) []span {
	matches := inlineRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []span{{kind: spanPlain, text: text}}
	}

	var spans []span
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			spans = append(spans, span{kind: spanPlain, text: text[pos:m[0]]})
		}
		switch {
		case m[2] >= 0: // <a href="...">...</a>
			spans = append(spans, span{kind: spanLink, href: text[m[2]:m[3]], text: text[m[4]:m[5]]})
		case m[6] >= 0: // <sub>
			spans = append(spans, span{kind: spanSub, text: text[m[6]:m[7]]})
		case m[8] >= 0: // <sup>
			spans = append(spans, span{kind: spanSup, text: text[m[8]:m[9]]})
		}
		pos = m[1]
	}
	if pos < len(text) {
		spans = append(spans, span{kind: spanPlain, text: text[pos:]})
	}
	return spans
}

// plainText strips inline markup, keeping the visible text.
func plainText(text string) string {
	var out string
	for _, s := range parseSpans(text) {
		out += s.text
	}
	return out
}
