// Package querylog appends ask and feedback events to JSON-lines files.
package querylog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// FileLog is an append-only JSONL writer. Callers treat failures as
// best-effort; the log never blocks or fails an ask request.
type FileLog struct {
	queryPath    string
	feedbackPath string
	mu           sync.Mutex
}

// NewFileLog constructs the log. Paths are created on first write.
func NewFileLog(queryPath, feedbackPath string) *FileLog {
	return &FileLog{queryPath: queryPath, feedbackPath: feedbackPath}
}

// LogQuery implements faq.QueryLog.
func (l *FileLog) LogQuery(_ context.Context, event faq.QueryEvent) error {
	return l.appendLine(l.queryPath, event)
}

// LogFeedback implements faq.QueryLog.
func (l *FileLog) LogFeedback(_ context.Context, event faq.FeedbackEvent) error {
	return l.appendLine(l.feedbackPath, event)
}

func (l *FileLog) appendLine(path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode log event: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}

var _ faq.QueryLog = (*FileLog)(nil)
