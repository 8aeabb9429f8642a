package driving

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// RouterService answers natural-language questions by routing each one
// to exactly one answering strategy.
type RouterService interface {
	// Answer classifies the query, executes the chosen route and
	// synthesizes a response. Returns domain.ErrInvalidInput for
	// queries that are empty after trimming. A caller-supplied
	// context deadline bounds slow subsystems; on expiry the request
	// fails with domain.ErrRouteTimeout rather than hanging.
	Answer(ctx context.Context, query string) (*domain.QueryResponse, error)
}
