package driving

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// SchemaService describes the relational warehouse.
type SchemaService interface {
	// Describe returns a fresh schema snapshot with sample rows.
	Describe(ctx context.Context) (*domain.SchemaReport, error)

	// SampleQueries returns executable example statements derived from
	// the live schema, for display and prompting.
	SampleQueries(ctx context.Context) ([]string, error)
}
