package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// sampleRowLimit is how many rows per table go into the schema report.
const sampleRowLimit = 3

// SchemaService describes the relational warehouse for display and
// prompting. Every call takes a fresh snapshot; nothing is cached.
type SchemaService struct {
	warehouse driven.RelationalStore
}

// NewSchemaService creates a schema service.
func NewSchemaService(warehouse driven.RelationalStore) *SchemaService {
	return &SchemaService{warehouse: warehouse}
}

// Describe returns the table/column snapshot with up to three sample
// rows per table.
func (s *SchemaService) Describe(ctx context.Context) (*domain.SchemaReport, error) {
	if s.warehouse == nil {
		return nil, domain.ErrDatabaseUnavailable
	}

	schema, err := s.warehouse.Schema(ctx)
	if err != nil {
		return nil, err
	}

	samples := make(map[string][]domain.Row, len(schema.Tables))
	for name := range schema.Tables {
		rows, err := s.warehouse.SampleRows(ctx, name, sampleRowLimit)
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", name, err)
		}
		samples[name] = rows
	}

	return &domain.SchemaReport{
		Schema:     *schema,
		SampleData: samples,
	}, nil
}

// SampleQueries derives runnable example statements from the live
// schema: a count and a preview per table, plus a group-by over the
// first text column when one exists.
func (s *SchemaService) SampleQueries(ctx context.Context) ([]string, error) {
	if s.warehouse == nil {
		return nil, domain.ErrDatabaseUnavailable
	}

	schema, err := s.warehouse.Schema(ctx)
	if err != nil {
		return nil, err
	}

	names := schema.TableNames()
	sort.Strings(names)

	var queries []string
	for _, name := range names {
		queries = append(queries,
			fmt.Sprintf("SELECT COUNT(*) FROM %s;", name),
			fmt.Sprintf("SELECT * FROM %s LIMIT 5;", name),
		)
		if col := firstColumnOfType(schema.Tables[name], "TEXT"); col != "" {
			queries = append(queries, fmt.Sprintf(
				"SELECT %s, COUNT(*) FROM %s GROUP BY %s ORDER BY COUNT(*) DESC LIMIT 5;",
				col, name, col))
		}
		if col := firstNumericColumn(schema.Tables[name]); col != "" {
			queries = append(queries, fmt.Sprintf(
				"SELECT AVG(%s), MIN(%s), MAX(%s) FROM %s;", col, col, col, name))
		}
	}
	return queries, nil
}

func firstColumnOfType(table domain.Table, sqlType string) string {
	for _, col := range table.Columns {
		if strings.EqualFold(col.Type, sqlType) {
			return col.Name
		}
	}
	return ""
}

// firstNumericColumn skips id-like columns so the aggregate example is
// over a meaningful measure.
func firstNumericColumn(table domain.Table) string {
	for _, col := range table.Columns {
		t := strings.ToUpper(col.Type)
		if t != "INTEGER" && t != "REAL" {
			continue
		}
		name := strings.ToLower(col.Name)
		if name == "id" || strings.HasSuffix(name, "_id") {
			continue
		}
		return col.Name
	}
	return ""
}
