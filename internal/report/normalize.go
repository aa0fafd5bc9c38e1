package report

import "strings"

// Unicode subscript/superscript codepoints render as empty boxes in the
// PDF core fonts, so they are rewritten as inline markup spans before any
// other processing. Unmapped codepoints pass through unchanged, and
// already-normalized text is a fixed point.
var scriptSpans = map[rune]string{
	// Subscripts.
	'₀': "<sub>0</sub>", '₁': "<sub>1</sub>", '₂': "<sub>2</sub>",
	'₃': "<sub>3</sub>", '₄': "<sub>4</sub>", '₅': "<sub>5</sub>",
	'₆': "<sub>6</sub>", '₇': "<sub>7</sub>", '₈': "<sub>8</sub>",
	'₉': "<sub>9</sub>", '₊': "<sub>+</sub>", '₋': "<sub>-</sub>",
	'₌': "<sub>=</sub>", '₍': "<sub>(</sub>", '₎': "<sub>)</sub>",
	'ₐ': "<sub>a</sub>", 'ₑ': "<sub>e</sub>", 'ₒ': "<sub>o</sub>",
	'ₓ': "<sub>x</sub>", 'ₔ': "<sub>ə</sub>", 'ₕ': "<sub>h</sub>",
	'ₖ': "<sub>k</sub>",
	'ₗ': "<sub>l</sub>", 'ₘ': "<sub>m</sub>", 'ₙ': "<sub>n</sub>",
	'ₚ': "<sub>p</sub>", 'ₛ': "<sub>s</sub>", 'ₜ': "<sub>t</sub>",

	// Superscripts.
	'⁰': "<sup>0</sup>", '¹': "<sup>1</sup>", '²': "<sup>2</sup>",
	'³': "<sup>3</sup>", '⁴': "<sup>4</sup>", '⁵': "<sup>5</sup>",
	'⁶': "<sup>6</sup>", '⁷': "<sup>7</sup>", '⁸': "<sup>8</sup>",
	'⁹': "<sup>9</sup>", '⁺': "<sup>+</sup>", '⁻': "<sup>-</sup>",
	'⁼': "<sup>=</sup>", '⁽': "<sup>(</sup>", '⁾': "<sup>)</sup>",
	'ⁿ': "<sup>n</sup>", 'ⁱ': "<sup>i</sup>",
}

// NormalizeScripts replaces Unicode subscript and superscript codepoints
// with <sub>/<sup> markup spans. It runs on every textual token before
// link detection, but never on code-block content.
func NormalizeScripts(text string) string {
	var b strings.Builder
	changed := false
	for _, r := range text {
		if span, ok := scriptSpans[r]; ok {
			b.WriteString(span)
			changed = true
		} else {
			b.WriteRune(r)
		}
	}
	if !changed {
		return text
	}
	return b.String()
}
