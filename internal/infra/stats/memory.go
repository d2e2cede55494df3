// Package stats counts how often each question is asked.
package stats

import (
	"context"
	"sort"
	"sync"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// MemoryStats is an in-memory implementation for tests and single-node runs.
type MemoryStats struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStats constructs stats backed by process memory.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// Increment bumps the counter for a canonical question and records the first
// display variant seen for it.
func (s *MemoryStats) Increment(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// Top returns the most frequent questions.
func (s *MemoryStats) Top(_ context.Context, limit int) ([]faq.TrendingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]faq.TrendingQuestion, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, faq.TrendingQuestion{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ faq.Stats = (*MemoryStats)(nil)
