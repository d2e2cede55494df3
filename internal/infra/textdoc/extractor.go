// Package textdoc extracts raw text lines from uploaded documents.
package textdoc

import (
	"bytes"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/campushelp/faqbot/internal/domain/faq"
	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

// Extractor pulls trimmed, non-empty lines from plain-text documents.
type Extractor struct {
	maxBytes int64
}

// NewExtractor constructs a line extractor. maxBytes <= 0 disables the limit.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{maxBytes: maxBytes}
}

// Lines implements faq.LineExtractor. Binary payloads are rejected with an
// unsupported_document error instead of being segmented into garbage.
func (e *Extractor) Lines(filename string, content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, apperrors.Wrap("invalid_input", "document content cannot be empty", nil)
	}
	if e.maxBytes > 0 && int64(len(content)) > e.maxBytes {
		return nil, apperrors.Wrap("invalid_input", "document exceeds maximum allowed size", nil)
	}
	if !looksLikeText(content) {
		return nil, apperrors.Wrap("unsupported_document", "document is not plain text: "+filename, nil)
	}

	raw := strings.ReplaceAll(string(content), "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func looksLikeText(content []byte) bool {
	if bytes.ContainsRune(content, 0) || !utf8.Valid(content) {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(content), "text/")
}

var _ faq.LineExtractor = (*Extractor)(nil)
