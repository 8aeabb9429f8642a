package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
	"github.com/helmsman-ai/helmsman/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// corpusFitter is implemented by embedding services that must be fitted
// to the corpus before they can embed (TF-IDF). Remote embedders do not
// implement it and skip the refit step.
type corpusFitter interface {
	Fit(corpus []string) error
}

// DocumentService runs the indexing pipeline: normalise, chunk, embed,
// persist. Indexing is all-or-nothing; a failure at any stage leaves no
// partial document behind.
//
// Writes to the same document name are serialised so concurrent uploads
// cannot interleave chunk writes; different documents index in parallel.
type DocumentService struct {
	docStore driven.DocumentStore
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	index    driven.VectorIndex

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// rebuildMu serialises full index rebuilds after corpus mutations.
	rebuildMu sync.Mutex
}

// NewDocumentService creates a document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		registry: registry,
		pipeline: pipeline,
		embedder: embedder,
		index:    index,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Index extracts text from the payload, chunks it, embeds the chunks
// and stores everything. Returns domain.ErrUnsupportedType for unknown
// declared types and domain.ErrExtractionFailed when the payload cannot
// be read as the declared format.
func (s *DocumentService) Index(ctx context.Context, name string, content []byte, mimeType string) (*domain.DocumentRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: document payload is empty", domain.ErrInvalidInput)
	}

	normaliser, err := s.registry.ForMIMEType(mimeType)
	if err != nil {
		return nil, err
	}

	logger.Section("Indexing")
	logger.Debug("indexing %q (%s, %d bytes)", name, mimeType, len(content))

	result, err := normaliser.Normalise(ctx, &domain.RawDocument{
		Name:     name,
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	doc := result.Document
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Name == "" {
		doc.Name = name
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	unlock := s.lockName(name)
	defer unlock()

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunking %q: %w", name, err)
	}
	doc.ChunkCount = len(chunks)

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("saving document %q: %w", name, err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		// Roll back the document row so no header without chunks remains.
		if delErr := s.docStore.DeleteDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("rollback of %s failed: %v", doc.ID, delErr)
		}
		return nil, fmt.Errorf("saving chunks for %q: %w", name, err)
	}

	if err := s.rebuildIndex(ctx); err != nil {
		logger.Warn("vector index rebuild failed: %v", err)
	}

	logger.Info("indexed %q: %d chunk(s)", doc.Name, doc.ChunkCount)
	record := doc.Record()
	return &record, nil
}

// Remove deletes the document and all its chunks atomically. Returns
// domain.ErrNotFound for an unknown id; a missing id is never reported
// as success.
func (s *DocumentService) Remove(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	unlock := s.lockName(doc.Name)
	defer unlock()

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	if err := s.rebuildIndex(ctx); err != nil {
		logger.Warn("vector index rebuild failed: %v", err)
	}

	logger.Info("removed %q", doc.Name)
	return nil
}

// List returns all indexed documents in insertion order.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentRecord, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]domain.DocumentRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].Record())
	}
	return records, nil
}

// Reindex re-embeds the stored corpus into the vector index. Call it
// at startup, when the index is empty but the corpus is not.
func (s *DocumentService) Reindex(ctx context.Context) error {
	return s.rebuildIndex(ctx)
}

// lockName serialises mutations for one document name and returns the
// unlock function.
func (s *DocumentService) lockName(name string) func() {
	s.mu.Lock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// rebuildIndex re-embeds the whole corpus and swaps the vector index
// contents. Corpus-fitted embedders (TF-IDF) change their vocabulary
// whenever a document is added or removed, which invalidates every
// stored vector, so a full rebuild is the only correct refresh.
func (s *DocumentService) rebuildIndex(ctx context.Context) error {
	if s.embedder == nil || s.index == nil {
		return nil
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing corpus: %w", err)
	}

	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := s.docStore.GetChunks(ctx, docs[i].ID)
		if err != nil {
			return fmt.Errorf("loading chunks for %s: %w", docs[i].ID, err)
		}
		chunks = append(chunks, docChunks...)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	if fitter, ok := s.embedder.(corpusFitter); ok && len(texts) > 0 {
		if err := fitter.Fit(texts); err != nil {
			return fmt.Errorf("fitting embedder: %w", err)
		}
	}

	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding corpus: %w", err)
	}
	for i, c := range chunks {
		if err := s.index.Add(ctx, c.ID, vectors[i]); err != nil {
			return fmt.Errorf("indexing chunk %s: %w", c.ID, err)
		}
	}

	logger.Debug("vector index rebuilt: %d chunk(s)", len(chunks))
	return nil
}
