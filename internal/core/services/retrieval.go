package services

import (
	"context"
	"fmt"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/logger"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 5

// RetrievalService finds the chunks most relevant to a query by
// embedding the query and searching the vector index, then joining the
// hits back to their chunks and parent documents.
type RetrievalService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	topK     int
}

// RetrievalOption configures a RetrievalService.
type RetrievalOption func(*RetrievalService)

// WithTopK overrides the default number of chunks retrieved per query.
// Values below 1 are ignored.
func WithTopK(k int) RetrievalOption {
	return func(s *RetrievalService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		embedder: embedder,
		index:    index,
		docStore: docStore,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve returns up to k chunks ranked by similarity to the query.
// When k is zero or negative the configured default applies. Hits whose
// chunk or document has been removed since indexing are skipped rather
// than failing the whole request.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = s.topK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("retrieval: %d hit(s) for %q", len(hits), query)

	docs := make(map[string]*domain.Document)
	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Warn("retrieval: chunk %s missing, skipping", hit.ChunkID)
			continue
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = s.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				logger.Warn("retrieval: document %s missing, skipping", chunk.DocumentID)
				continue
			}
			docs[chunk.DocumentID] = doc
		}

		results = append(results, domain.RetrievedChunk{
			Chunk:        *chunk,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			Score:        hit.Similarity,
		})
	}

	return results, nil
}
