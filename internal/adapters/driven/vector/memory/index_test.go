package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func TestAdd_Validation(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	assert.ErrorIs(t, idx.Add(ctx, "", []float32{1}), domain.ErrInvalidInput)
	assert.ErrorIs(t, idx.Add(ctx, "chunk-1", nil), domain.ErrInvalidInput)
}

func TestSearch_OrderedBySimilarity(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "exact", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "close", []float32{0.9, 0.1}))
	require.NoError(t, idx.Add(ctx, "orthogonal", []float32{0, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.0001)
	assert.Equal(t, "close", hits[1].ChunkID)
	assert.Equal(t, "orthogonal", hits[2].ChunkID)
	assert.InDelta(t, 0.0, hits[2].Similarity, 0.0001)
}

func TestSearch_TopK(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, idx.Add(ctx, id, []float32{1, 0}))
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, hits, 5)
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := NewIndex()

	_, err := idx.Search(context.Background(), nil, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_SkipsMismatchedDimensions(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "old", []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, "new", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].ChunkID)
}

func TestDelete(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chunk-1", []float32{1, 0}))
	require.NoError(t, idx.Delete(ctx, "chunk-1"))
	require.NoError(t, idx.Delete(ctx, "missing")) // no-op

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestAdd_CopiesVector(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, idx.Add(ctx, "chunk-1", vec))
	vec[0] = 0
	vec[1] = 1

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 0.0001)
}

func TestReset(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chunk-1", []float32{1}))
	require.NoError(t, idx.Add(ctx, "chunk-2", []float32{1}))
	assert.Equal(t, 2, idx.Len())

	require.NoError(t, idx.Reset(ctx))
	assert.Equal(t, 0, idx.Len())
}
