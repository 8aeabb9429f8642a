package driving

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// DocumentService manages the indexed corpus.
type DocumentService interface {
	// Index extracts text from the payload, chunks it and stores the
	// result. Indexing is all-or-nothing: on failure no chunks remain.
	// Returns domain.ErrUnsupportedType for unknown declared types and
	// domain.ErrExtractionFailed for unreadable payloads.
	Index(ctx context.Context, name string, content []byte, mimeType string) (*domain.DocumentRecord, error)

	// Remove deletes the document and all its chunks atomically.
	// Returns domain.ErrNotFound if the id is unknown; a missing id is
	// never reported as success.
	Remove(ctx context.Context, documentID string) error

	// List returns all indexed documents in insertion order.
	List(ctx context.Context) ([]domain.DocumentRecord, error)
}
