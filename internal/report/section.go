package report

import (
	"regexp"
	"strconv"
	"strings"
)

// sectionCounter tracks hierarchical section numbering (1, 1.1, 1.2, 2,
// 2.1, ...). Numbering stops at three levels: deeper markup inherits the
// level-3 style without further subdivision.
type sectionCounter struct {
	counters [3]int
}

// advance increments the counter for the given level, resets all deeper
// counters and returns the dot-joined number. Levels outside 1..3 return
// the empty string and leave the state untouched.
func (s *sectionCounter) advance(level int) string {
	if level < 1 || level > 3 {
		return ""
	}
	s.counters[level-1]++
	for i := level; i < 3; i++ {
		s.counters[i] = 0
	}
	parts := make([]string, level)
	for i := 0; i < level; i++ {
		parts[i] = strconv.Itoa(s.counters[i])
	}
	return strings.Join(parts, ".")
}

var anchorStrip = regexp.MustCompile(`[^a-z0-9_]`)

// anchorKey derives the ToC anchor for a heading: lowercase, spaces to
// underscores, everything outside [a-z0-9_] stripped. Distinct headings
// that normalize to the same key are not deduplicated; the renderer keys
// ToC targets by entry position, so collisions only affect the label.
func anchorKey(text string) string {
	return anchorStrip.ReplaceAllString(strings.ReplaceAll(strings.ToLower(text), " ", "_"), "")
}
