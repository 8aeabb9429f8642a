package driven

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// RelationalStore executes SQL against the warehouse and describes its schema.
// Backed by SQLite. Read paths must be safe for concurrent callers.
type RelationalStore interface {
	// Execute runs a SQL statement and returns the result rows.
	// Returns domain.ErrExecutionFailed (wrapped) on SQL errors.
	Execute(ctx context.Context, query string) ([]domain.Row, error)

	// Schema returns a fresh snapshot of tables, columns and row counts.
	Schema(ctx context.Context) (*domain.Schema, error)

	// SampleRows returns up to limit rows from the table, in storage order.
	SampleRows(ctx context.Context, table string, limit int) ([]domain.Row, error)

	// TableNames returns all table names sorted alphabetically.
	TableNames(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
