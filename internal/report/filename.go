package report

import (
	"regexp"
	"strings"
)

const fallbackFilename = "research_output.pdf"

var filenameStrip = regexp.MustCompile(`[^a-z0-9_]`)

// Filename derives a deterministic artifact name from the body: the first
// non-empty line, minus boilerplate prefixes, truncated to five words and
// fifty characters, sanitized to [a-z0-9_].
func Filename(body string) string {
	var first string
	for _, line := range strings.Split(body, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			first = s
			break
		}
	}
	if first == "" {
		return fallbackFilename
	}

	for _, prefix := range []string{"Topic:", "Research:", "Summary:"} {
		first = strings.TrimSpace(strings.ReplaceAll(first, prefix, ""))
	}

	words := strings.Fields(first)
	if len(words) > 5 {
		words = words[:5]
	}
	name := filenameStrip.ReplaceAllString(strings.ToLower(strings.Join(words, "_")), "")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		return fallbackFilename
	}
	return name + "_research.pdf"
}
