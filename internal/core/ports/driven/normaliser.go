package driven

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// Normaliser transforms raw documents into extracted text.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from a raw document.
	// Returns domain.ErrExtractionFailed (wrapped) when the bytes
	// cannot be parsed as the declared format.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content populated.
	Document domain.Document
}

// NormaliserRegistry selects a normaliser for a declared MIME type.
type NormaliserRegistry interface {
	// ForMIMEType returns the highest-priority normaliser for the type.
	// Returns domain.ErrUnsupportedType if none is registered.
	ForMIMEType(mimeType string) (Normaliser, error)
}
