package faq

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSimilarityThreshold is the minimum cosine similarity a candidate
// must reach before its answer is returned instead of the fallback message.
const DefaultSimilarityThreshold = 0.50

// Record is one question/answer pair in the knowledge base. Records have no
// surrogate identifier: a record's position in the store is its identity, and
// the similarity index keeps one vector per position in the same order.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// Request encapsulates an ask query.
type Request struct {
	Question string `json:"question"`
}

// Response is returned to the HTTP transport for an ask request.
type Response struct {
	Question        string             `json:"question"`
	Answer          string             `json:"answer"`
	MatchedQuestion string             `json:"matchedQuestion,omitempty"`
	Score           float64            `json:"score"`
	Matched         bool               `json:"matched"`
	Trending        []TrendingQuestion `json:"trending,omitempty"`
}

// TrendingQuestion represents a frequently asked question.
type TrendingQuestion struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Snapshot is the unit of persistence: the full ordered record sequence and,
// optionally, the embedding vector for each record in the same order. A
// backend that cannot store vectors leaves Vectors nil and the index is
// rebuilt from scratch at startup.
type Snapshot struct {
	Records []Record
	Vectors [][]float32
}

// QueryEvent captures one ask request for the append-only query log.
type QueryEvent struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Matched  bool      `json:"matched"`
	Score    float64   `json:"score"`
	AskedAt  time.Time `json:"askedAt"`
}

// FeedbackEvent captures user feedback on a served answer.
type FeedbackEvent struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Feedback   string    `json:"feedback"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// ImportResult reports the outcome of a document import.
type ImportResult struct {
	Added int `json:"added"`
}
