package driven

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage, or an in-memory map for tests.
//
// Implementations must support concurrent readers. Deleting a document
// removes its chunks in the same transaction (no orphans).
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document atomically.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks atomically.
	// Returns domain.ErrNotFound if the id is unknown.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents in insertion order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
