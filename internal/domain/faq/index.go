package faq

import (
	"context"
	"errors"
	"math"
	"sort"

	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

// Index holds one embedding vector per record, in record order. It is derived
// state: the service replaces the whole index whenever the record sequence
// changes, so len(index) == len(records) holds before any query is served.
type Index struct {
	vectors [][]float32
}

// Match pairs a record position with its similarity score.
type Match struct {
	Position int
	Score    float64
}

// NewIndex wraps pre-computed vectors, one per record.
func NewIndex(vectors [][]float32) *Index {
	return &Index{vectors: vectors}
}

// BuildIndex embeds every record's question in a single batch call and
// returns the resulting index. Records and vectors share order.
func BuildIndex(ctx context.Context, embedder Embedder, records []Record) (*Index, error) {
	if len(records) == 0 {
		return &Index{}, nil
	}
	texts := make([]string, 0, len(records))
	for _, rec := range records {
		texts = append(texts, rec.Question)
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.Wrap("provider_unavailable", "embedding batch failed", err)
	}
	if len(vectors) != len(records) {
		return nil, apperrors.Wrap("provider_unavailable", "embedding count mismatch", errors.New("provider returned partial batch"))
	}
	copied := make([][]float32, len(vectors))
	for i, vec := range vectors {
		copied[i] = append([]float32(nil), vec...)
	}
	return &Index{vectors: copied}, nil
}

// Len reports how many vectors the index holds.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Vectors returns a copy of the stored vectors for persistence.
func (ix *Index) Vectors() [][]float32 {
	out := make([][]float32, len(ix.vectors))
	for i, vec := range ix.vectors {
		out[i] = append([]float32(nil), vec...)
	}
	return out
}

// Query scores the vector against every stored embedding and returns the
// topK best matches, highest score first. Ties keep the lower position, the
// first-inserted record. A zero-magnitude query vector is rejected; a
// zero-magnitude candidate is excluded from ranking instead of failing the
// whole query.
func (ix *Index) Query(vector []float32, topK int) ([]Match, error) {
	if magnitude(vector) == 0 {
		return nil, apperrors.Wrap("degenerate_vector", "query vector has zero magnitude", nil)
	}
	if topK <= 0 {
		topK = 1
	}
	matches := make([]Match, 0, len(ix.vectors))
	for pos, candidate := range ix.vectors {
		score, err := cosineSimilarity(vector, candidate)
		if err != nil {
			// Treat a degenerate candidate as infinitely dissimilar.
			continue
		}
		matches = append(matches, Match{Position: pos, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|). Either vector having zero
// magnitude is a degenerate input and yields an error rather than NaN.
func cosineSimilarity(a, b []float32) (float64, error) {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, apperrors.Wrap("degenerate_vector", "cosine similarity of zero magnitude vector", nil)
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func magnitude(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
