// Package extract segments free-form document lines into question/answer
// pairs using line-oriented marker matching.
package extract

import (
	"regexp"
	"strings"
)

// Candidate is a question/answer pair recovered from document text.
type Candidate struct {
	Question string
	Answer   string
}

// Marker patterns: a "Q"/"Question" or "A"/"Answer" word followed by one of
// `.`, `:`, `-`, or whitespace, then the remainder of the line. The separator
// is required so ordinary prose starting with Q or A is not misread.
var (
	questionMarker = regexp.MustCompile(`^(?i)q(?:uestion)?(?:\s*[.:\-]\s*|\s+)(.*)$`)
	answerMarker   = regexp.MustCompile(`^(?i)a(?:nswer)?(?:\s*[.:\-]\s*|\s+)(.*)$`)
)

// Parse walks the lines once, left to right, with no backtracking. A line
// matching the question marker starts a record; every following line up to
// the next marker (or end of input) is an answer line, with an answer marker
// stripped from the first one. Answer lines join with a single space. A
// candidate is emitted only when both question and answer are non-empty, so
// an orphan question followed immediately by another marker, or by end of
// input, yields nothing.
func Parse(lines []string) []Candidate {
	var out []Candidate
	i := 0
	for i < len(lines) {
		match := questionMarker.FindStringSubmatch(lines[i])
		if match == nil {
			i++
			continue
		}
		question := strings.TrimSpace(match[1])
		i++

		var parts []string
		first := true
		for i < len(lines) && !questionMarker.MatchString(lines[i]) {
			line := lines[i]
			if first {
				if am := answerMarker.FindStringSubmatch(line); am != nil {
					line = am[1]
				}
				first = false
			}
			line = strings.TrimSpace(line)
			if line != "" {
				parts = append(parts, line)
			}
			i++
		}
		answer := strings.TrimSpace(strings.Join(parts, " "))
		if question != "" && answer != "" {
			out = append(out, Candidate{Question: question, Answer: answer})
		}
	}
	return out
}
