// Package faqfile persists the FAQ record sequence as a JSON file.
package faqfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// Store reads and replaces the whole record file on every operation. Vectors
// are not persisted; the similarity index is rebuilt at startup.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore constructs a file-backed snapshotter.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load implements faq.Snapshotter. A missing file is an empty store.
func (s *Store) Load(_ context.Context) (faq.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return faq.Snapshot{}, nil
		}
		return faq.Snapshot{}, fmt.Errorf("read faq file: %w", err)
	}
	var records []faq.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return faq.Snapshot{}, fmt.Errorf("parse faq file: %w", err)
	}
	return faq.Snapshot{Records: records}, nil
}

// Save writes the full record sequence via a temp file and rename so a crash
// mid-write never leaves a truncated store behind.
func (s *Store) Save(_ context.Context, snap faq.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := snap.Records
	if records == nil {
		records = []faq.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode faq records: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create faq dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "faqs-*.json")
	if err != nil {
		return fmt.Errorf("create temp faq file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write faq file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close faq file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace faq file: %w", err)
	}
	return nil
}

var _ faq.Snapshotter = (*Store)(nil)
