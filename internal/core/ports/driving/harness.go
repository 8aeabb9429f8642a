package driving

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// HarnessService manufactures and scores routing test cases from live data.
type HarnessService interface {
	// GenerateQueries inspects the live schema and corpus and derives
	// test queries spanning every route whose backing data is non-empty.
	GenerateQueries(ctx context.Context) ([]domain.TestQuery, error)

	// Run executes each query through the router and aggregates results.
	// A single query's failure is recorded, never propagated; the batch
	// always completes.
	Run(ctx context.Context, queries []domain.TestQuery) (*domain.TestResults, error)
}
