// Package memory provides an in-memory brute-force vector index.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact cosine-similarity index held in memory.
// Search is linear in the number of vectors, which is fine for the
// corpus sizes a single warehouse serves.
type Index struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewIndex creates an empty vector index.
func NewIndex() *Index {
	return &Index{
		vectors: make(map[string][]float32),
	}
}

// Add inserts or replaces a vector for the given chunk ID.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return fmt.Errorf("vector: %w: empty chunk ID", domain.ErrInvalidInput)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("vector: %w: empty embedding", domain.ErrInvalidInput)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	idx.mu.Lock()
	idx.vectors[chunkID] = vec
	idx.mu.Unlock()
	return nil
}

// Delete removes a vector from the index. Deleting an absent chunk is a no-op.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	delete(idx.vectors, chunkID)
	idx.mu.Unlock()
	return nil
}

// Search finds the k most similar vectors to the query.
// Results are ordered by descending similarity.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("vector: %w: empty query vector", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for chunkID, vec := range idx.vectors {
		if len(vec) != len(query) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: cosine(query, vec),
		})
	}
	idx.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Reset discards all vectors.
func (idx *Index) Reset(_ context.Context) error {
	idx.mu.Lock()
	idx.vectors = make(map[string][]float32)
	idx.mu.Unlock()
	return nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosine computes cosine similarity between two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
