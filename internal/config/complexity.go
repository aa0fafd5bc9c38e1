package config

import "strings"

// Keyword lists used to size a query. Matches in complexKeywords raise
// the score, simpleKeywords lower it.
var complexKeywords = []string{
	"analyze", "analysis", "compare", "comparison", "evaluate", "impact",
	"implications", "trends", "forecast", "comprehensive", "in-depth",
	"detailed", "research", "investigate", "synthesize", "strategy",
	"economic", "policy", "framework",
}

var simpleKeywords = []string{
	"what is", "who is", "when did", "when was", "where is", "define",
	"definition", "meaning", "list", "name",
}

// Complexity tiers.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// AssessComplexity buckets a query by keyword signals and length.
func AssessComplexity(query string) string {
	q := strings.ToLower(query)
	score := 0
	for _, kw := range complexKeywords {
		if strings.Contains(q, kw) {
			score++
		}
	}
	for _, kw := range simpleKeywords {
		if strings.Contains(q, kw) {
			score--
		}
	}
	words := len(strings.Fields(q))
	if words > 30 {
		score++
	}
	if words < 8 {
		score--
	}

	switch {
	case score >= 2:
		return ComplexityComplex
	case score <= -1:
		return ComplexitySimple
	default:
		return ComplexityModerate
	}
}

// ModelFor maps a query to the configured model for its complexity tier.
func (c Config) ModelFor(query string) string {
	switch AssessComplexity(query) {
	case ComplexitySimple:
		return c.ModelSimple
	case ComplexityComplex:
		return c.ModelComplex
	default:
		return c.ModelModerate
	}
}
