package faq

import (
	"strings"
	"unicode"
)

// canonicalQuestion lowercases, strips punctuation, and collapses whitespace
// so spelling variants of the same question share one trending counter.
func canonicalQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
