package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

func TestCosineSimilarity(t *testing.T) {
	identical, err := cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
	require.NoError(t, err)
	require.InDelta(t, 1.0, identical, 1e-9)

	orthogonal, err := cosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.0, orthogonal, 1e-9)

	opposite, err := cosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	require.InDelta(t, -1.0, opposite, 1e-9)

	half, err := cosineSimilarity([]float32{1, 0, 0, 0}, []float32{1, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 0.5, half)
}

func TestCosineSimilarityZeroMagnitude(t *testing.T) {
	_, err := cosineSimilarity([]float32{0, 0}, []float32{1, 1})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "degenerate_vector"))
}

func TestQueryRejectsDegenerateQueryVector(t *testing.T) {
	ix := NewIndex([][]float32{{1, 0}})
	_, err := ix.Query([]float32{0, 0}, 1)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "degenerate_vector"))
}

func TestQuerySkipsDegenerateCandidates(t *testing.T) {
	ix := NewIndex([][]float32{
		{0, 0},
		{1, 0},
	})

	matches, err := ix.Query([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 1, matches[0].Position)
}

func TestQueryOrdersByScoreDescending(t *testing.T) {
	ix := NewIndex([][]float32{
		{0, 1},       // orthogonal
		{1, 0},       // exact
		{1, 1, 0, 0}, // partial
	})

	matches, err := ix.Query([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Equal(t, 1, matches[0].Position)
	require.Equal(t, 2, matches[1].Position)
	require.Equal(t, 0, matches[2].Position)
	require.Greater(t, matches[0].Score, matches[1].Score)
	require.Greater(t, matches[1].Score, matches[2].Score)
}

func TestQueryTiesKeepLowestPosition(t *testing.T) {
	ix := NewIndex([][]float32{
		{2, 0},
		{1, 0},
		{3, 0},
	})

	matches, err := ix.Query([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 0, matches[0].Position)
	require.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestQueryTruncatesToTopK(t *testing.T) {
	ix := NewIndex([][]float32{
		{1, 0},
		{1, 1},
		{0, 1},
		{1, 2},
	})

	matches, err := ix.Query([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestBuildIndexEmptyRecords(t *testing.T) {
	ix, err := BuildIndex(context.Background(), &stubEmbedder{}, nil)
	require.NoError(t, err)
	require.Zero(t, ix.Len())
}

func TestBuildIndexSingleBatch(t *testing.T) {
	emb := &stubEmbedder{dim: 4}
	records := []Record{
		{Question: "first", Answer: "a"},
		{Question: "second", Answer: "b"},
		{Question: "third", Answer: "c"},
	}

	ix, err := BuildIndex(context.Background(), emb, records)
	require.NoError(t, err)
	require.Equal(t, 3, ix.Len())
	require.Equal(t, 1, emb.calls)
	require.Equal(t, [][]string{{"first", "second", "third"}}, emb.batches)
}

func TestBuildIndexProviderFailure(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("upstream timeout")}
	_, err := BuildIndex(context.Background(), emb, []Record{{Question: "q", Answer: "a"}})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "provider_unavailable"))
}

func TestBuildIndexCountMismatch(t *testing.T) {
	emb := &stubEmbedder{truncate: true}
	_, err := BuildIndex(context.Background(), emb, []Record{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "provider_unavailable"))
}

func TestVectorsReturnsCopy(t *testing.T) {
	ix := NewIndex([][]float32{{1, 2}})
	out := ix.Vectors()
	out[0][0] = 99

	again := ix.Vectors()
	require.Equal(t, float32(1), again[0][0])
}
