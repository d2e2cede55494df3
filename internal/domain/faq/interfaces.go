package faq

import "context"

// Embedder maps texts to fixed-dimension vectors. Implementations must be
// deterministic for a given model so repeated asks score identically.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Snapshotter is the durable read/replace-whole persistence primitive for the
// record sequence. Save replaces everything previously stored.
type Snapshotter interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// QueryLog receives ask and feedback events. Implementations are append-only
// and best-effort: a logging failure never fails the primary operation.
type QueryLog interface {
	LogQuery(ctx context.Context, event QueryEvent) error
	LogFeedback(ctx context.Context, event FeedbackEvent) error
}

// Stats tracks how often each question is asked.
type Stats interface {
	Increment(ctx context.Context, canonical, display string) error
	Top(ctx context.Context, limit int) ([]TrendingQuestion, error)
}

// LineExtractor pulls trimmed, non-empty text lines out of an uploaded
// document so the question/answer extractor can segment them.
type LineExtractor interface {
	Lines(filename string, content []byte) ([]string, error)
}

// Archive keeps a best-effort copy of imported source documents.
type Archive interface {
	Store(ctx context.Context, key string, content []byte, contentType string) error
}
