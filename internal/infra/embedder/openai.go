// Package embedder provides faq.Embedder implementations.
package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/campushelp/faqbot/internal/domain/faq"
	"github.com/campushelp/faqbot/internal/infra/openai"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIEmbedder constructs an embedder backed by the embeddings client.
func NewOpenAIEmbedder(client *openai.Client, model string, logger *slog.Logger) *OpenAIEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEmbedder{
		client: client,
		model:  strings.TrimSpace(model),
		logger: logger.With("component", "embedder.openai"),
	}
}

// Embed requests embeddings for the given texts, batching to stay under the
// provider's token cap.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var (
		out            [][]float32
		batch          []string
		batchTokens    int
		maxBatchTokens = 200_000 // stay well below provider's 300k cap
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		resp, err := e.client.CreateEmbedding(ctx, openai.EmbeddingRequest{
			Model: e.model,
			Input: batch,
		})
		if err != nil {
			return fmt.Errorf("create embedding: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return fmt.Errorf("embedding result count mismatch: expected %d got %d", len(batch), len(resp.Data))
		}
		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			copy(vec, item.Embedding)
			out = append(out, vec)
		}
		batch = batch[:0]
		batchTokens = 0
		return nil
	}

	for _, text := range texts {
		tokens := estimateTokens(text)
		if tokens > maxBatchTokens {
			return nil, fmt.Errorf("text too large for embedding request: estimated tokens=%d", tokens)
		}
		if batchTokens+tokens > maxBatchTokens && len(batch) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// estimateTokens provides a rough, upper-biased token count.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}

var _ faq.Embedder = (*OpenAIEmbedder)(nil)
