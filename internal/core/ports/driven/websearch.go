package driven

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// WebSearcher queries an external search provider for current or
// external information. This is an optional service - when nil,
// WEB-routed queries return a degraded response.
type WebSearcher interface {
	// Search returns up to limit ranked results with attributions.
	Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error)

	// Close releases resources.
	Close() error
}
