package faq

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campushelp/faqbot/internal/domain/extract"
	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

// Config holds runtime knobs for the FAQ service.
type Config struct {
	SimilarityThreshold float64
	TopTrending         int
	FallbackAnswer      string
	OperatorContact     string
}

// Service exposes the retrieval engine and the store mutation protocol.
type Service interface {
	Ask(ctx context.Context, question string) (Response, error)
	Add(ctx context.Context, question, answer, category string) (int, error)
	Edit(ctx context.Context, position int, question, answer, category string) error
	Delete(ctx context.Context, position int) error
	List(ctx context.Context) []Record
	ImportDocument(ctx context.Context, filename string, content []byte) (ImportResult, error)
	Feedback(ctx context.Context, question, answer, feedback string) error
	Trending(ctx context.Context) ([]TrendingQuestion, error)
	Restore(ctx context.Context) error
}

type service struct {
	cfg       Config
	embedder  Embedder
	snapshots Snapshotter
	queries   QueryLog
	stats     Stats
	lines     LineExtractor
	archive   Archive
	logger    *slog.Logger

	// writeMu serializes mutations end to end, including the embedding calls
	// that happen outside the state lock. mu only guards the records/index
	// swap so readers never observe a store and index of different lengths.
	writeMu sync.Mutex
	mu      sync.RWMutex
	records []Record
	index   *Index
}

// NewService wires up the FAQ domain. Call Restore before serving queries.
func NewService(cfg Config, embedder Embedder, snapshots Snapshotter, queries QueryLog, stats Stats, lines LineExtractor, archive Archive, logger *slog.Logger) Service {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return &service{
		cfg:       cfg,
		embedder:  embedder,
		snapshots: snapshots,
		queries:   queries,
		stats:     stats,
		lines:     lines,
		archive:   archive,
		logger:    logger.With("component", "faq.service"),
		index:     &Index{},
	}
}

// Restore loads the persisted record sequence and rebuilds the similarity
// index. Persisted vectors are reused when they still line up with the
// records; anything else forces a full re-embedding.
func (s *service) Restore(ctx context.Context) error {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return apperrors.Wrap("persistence_failure", "failed to load faq records", err)
	}
	var index *Index
	if len(snap.Vectors) == len(snap.Records) && len(snap.Vectors) > 0 {
		index = NewIndex(snap.Vectors)
		s.logger.Info("similarity index restored from snapshot", "records", len(snap.Records))
	} else {
		index, err = BuildIndex(ctx, s.embedder, snap.Records)
		if err != nil {
			return err
		}
		if len(snap.Records) > 0 {
			s.logger.Info("similarity index rebuilt", "records", len(snap.Records))
		}
	}
	s.mu.Lock()
	s.records = snap.Records
	s.index = index
	s.mu.Unlock()
	return nil
}

// Ask embeds the trimmed question, scores it against the index, and applies
// the acceptance threshold. Below-threshold results return the configured
// fallback answer with Matched=false.
func (s *service) Ask(ctx context.Context, question string) (Response, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return Response{}, apperrors.Wrap("invalid_input", "no question provided", nil)
	}

	vector, err := s.embedText(ctx, trimmed)
	if err != nil {
		return Response{}, err
	}

	s.mu.RLock()
	matches, err := s.index.Query(vector, 1)
	var matched Record
	if err == nil && len(matches) > 0 {
		matched = s.records[matches[0].Position]
	}
	s.mu.RUnlock()
	if err != nil {
		return Response{}, err
	}

	resp := Response{Question: trimmed, Answer: s.fallbackAnswer(), Matched: false}
	if len(matches) > 0 && matches[0].Score >= s.cfg.SimilarityThreshold {
		resp.Answer = matched.Answer
		resp.MatchedQuestion = matched.Question
		resp.Score = matches[0].Score
		resp.Matched = true
	} else if len(matches) > 0 {
		resp.Score = matches[0].Score
	}

	s.recordQuery(ctx, trimmed, resp)
	resp.Trending = s.topTrending(ctx)
	return resp, nil
}

// Add appends a record, rebuilds the index, and persists write-through.
func (s *service) Add(ctx context.Context, question, answer, category string) (int, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return 0, apperrors.Wrap("invalid_input", "question and answer cannot be empty", nil)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := s.copyRecords()
	if pos := findQuestion(records, question); pos >= 0 {
		return 0, apperrors.Wrap("duplicate_question", fmt.Sprintf("question already exists at position %d", pos), nil)
	}
	next := append(records, Record{Question: question, Answer: answer, Category: strings.TrimSpace(category)})
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return len(next) - 1, nil
}

// Edit overwrites the record at position. The duplicate-question check is an
// add-time guard only and is intentionally not applied here.
func (s *service) Edit(ctx context.Context, position int, question, answer, category string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return apperrors.Wrap("invalid_input", "question and answer cannot be empty", nil)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := s.copyRecords()
	if position < 0 || position >= len(records) {
		return apperrors.Wrap("index_out_of_range", fmt.Sprintf("no faq at position %d", position), nil)
	}
	records[position] = Record{Question: question, Answer: answer, Category: strings.TrimSpace(category)}
	return s.commit(ctx, records)
}

// Delete removes the record at position. Every later record shifts down one
// position, so callers must re-fetch positions afterwards.
func (s *service) Delete(ctx context.Context, position int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := s.copyRecords()
	if position < 0 || position >= len(records) {
		return apperrors.Wrap("index_out_of_range", fmt.Sprintf("no faq at position %d", position), nil)
	}
	next := append(records[:position], records[position+1:]...)
	return s.commit(ctx, next)
}

// List returns a copy of the record sequence in positional order.
func (s *service) List(_ context.Context) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// ImportDocument extracts question/answer candidates from an uploaded
// document and appends them as one batch, rebuilding the index once for the
// whole import rather than once per record.
func (s *service) ImportDocument(ctx context.Context, filename string, content []byte) (ImportResult, error) {
	lines, err := s.lines.Lines(filename, content)
	if err != nil {
		return ImportResult{}, err
	}
	candidates := extract.Parse(lines)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := s.copyRecords()
	next := records
	added := 0
	for _, cand := range candidates {
		if findQuestion(next, cand.Question) >= 0 {
			continue
		}
		next = append(next, Record{Question: cand.Question, Answer: cand.Answer})
		added++
	}
	if added > 0 {
		if err := s.commit(ctx, next); err != nil {
			return ImportResult{}, err
		}
	}
	s.archiveDocument(ctx, filename, content)

	s.logger.Info("document import complete", "filename", filename, "candidates", len(candidates), "added", added)
	return ImportResult{Added: added}, nil
}

// Feedback records user feedback on a served answer.
func (s *service) Feedback(ctx context.Context, question, answer, feedback string) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return apperrors.Wrap("invalid_input", "feedback cannot be empty", nil)
	}
	event := FeedbackEvent{
		ID:         uuid.New(),
		Question:   strings.TrimSpace(question),
		Answer:     strings.TrimSpace(answer),
		Feedback:   feedback,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.queries.LogFeedback(ctx, event); err != nil {
		s.logger.Warn("feedback log append failed", "error", err)
	}
	return nil
}

// Trending returns the most frequently asked questions.
func (s *service) Trending(ctx context.Context) ([]TrendingQuestion, error) {
	top, err := s.stats.Top(ctx, s.cfg.TopTrending)
	if err != nil {
		return nil, apperrors.Wrap("persistence_failure", "failed to load trending questions", err)
	}
	return top, nil
}

// commit swaps in the new record sequence plus a freshly built index, then
// persists write-through. A persistence failure rolls the in-memory state
// back so memory and durable storage never diverge silently.
func (s *service) commit(ctx context.Context, next []Record) error {
	index, err := BuildIndex(ctx, s.embedder, next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prevRecords, prevIndex := s.records, s.index
	s.records = next
	s.index = index
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, Snapshot{Records: next, Vectors: index.Vectors()}); err != nil {
		s.mu.Lock()
		s.records = prevRecords
		s.index = prevIndex
		s.mu.Unlock()
		return apperrors.Wrap("persistence_failure", "failed to persist faq records", err)
	}
	return nil
}

func (s *service) copyRecords() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

func (s *service) embedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, apperrors.Wrap("provider_unavailable", "failed to embed question", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, apperrors.Wrap("provider_unavailable", "embedding response empty", nil)
	}
	return vectors[0], nil
}

func (s *service) fallbackAnswer() string {
	answer := s.cfg.FallbackAnswer
	if answer == "" {
		answer = "Sorry, I don't have an answer for that yet."
	}
	if contact := strings.TrimSpace(s.cfg.OperatorContact); contact != "" {
		answer = answer + " You can reach us at " + contact + "."
	}
	return answer
}

func (s *service) recordQuery(ctx context.Context, question string, resp Response) {
	event := QueryEvent{
		ID:       uuid.New(),
		Question: question,
		Matched:  resp.Matched,
		Score:    resp.Score,
		AskedAt:  time.Now().UTC(),
	}
	if err := s.queries.LogQuery(ctx, event); err != nil {
		s.logger.Warn("query log append failed", "error", err)
	}
	if err := s.stats.Increment(ctx, canonicalQuestion(question), question); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
}

func (s *service) topTrending(ctx context.Context) []TrendingQuestion {
	if s.cfg.TopTrending <= 0 {
		return nil
	}
	top, err := s.stats.Top(ctx, s.cfg.TopTrending)
	if err != nil {
		s.logger.Warn("trending fetch failed", "error", err)
		return nil
	}
	return top
}

func (s *service) archiveDocument(ctx context.Context, filename string, content []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("imports/%s/%s", uuid.New().String(), sanitizeFilename(filename))
	if err := s.archive.Store(ctx, key, content, http.DetectContentType(content)); err != nil {
		s.logger.Warn("document archive failed", "key", key, "error", err)
	}
}

// findQuestion reports the position of a case-insensitive question match, or
// -1 when absent.
func findQuestion(records []Record, question string) int {
	for i, rec := range records {
		if strings.EqualFold(rec.Question, question) {
			return i
		}
	}
	return -1
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "document.txt"
	}
	return name
}
