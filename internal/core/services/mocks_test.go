package services

import (
	"context"
	"fmt"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// mockLLM scripts Generate responses per test.
type mockLLM struct {
	generateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error)
	prompts      []string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, opts)
	}
	return "generated answer", nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "", fmt.Errorf("not scripted")
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockWarehouse serves a canned schema and scripted query results.
type mockWarehouse struct {
	schema      *domain.Schema
	rows        []domain.Row
	executeErr  error
	executedSQL []string
	samples     map[string][]domain.Row
}

func (m *mockWarehouse) Execute(_ context.Context, query string) ([]domain.Row, error) {
	m.executedSQL = append(m.executedSQL, query)
	if m.executeErr != nil {
		return nil, m.executeErr
	}
	return m.rows, nil
}

func (m *mockWarehouse) Schema(_ context.Context) (*domain.Schema, error) {
	if m.schema == nil {
		return &domain.Schema{}, nil
	}
	return m.schema, nil
}

func (m *mockWarehouse) SampleRows(_ context.Context, table string, limit int) ([]domain.Row, error) {
	rows := m.samples[table]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockWarehouse) TableNames(_ context.Context) ([]string, error) {
	names := m.schema.TableNames()
	return names, nil
}

func (m *mockWarehouse) Close() error { return nil }

// mockSearcher returns canned web results.
type mockSearcher struct {
	results   []domain.WebResult
	searchErr error
	queries   []string
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int) ([]domain.WebResult, error) {
	m.queries = append(m.queries, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results := m.results
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *mockSearcher) Close() error { return nil }

// employeeSchema is the warehouse shape shared across router and
// harness tests.
func employeeSchema() *domain.Schema {
	return &domain.Schema{
		Tables: map[string]domain.Table{
			"employees": {
				Columns: []domain.Column{
					{Name: "id", Type: "INTEGER", NotNull: true},
					{Name: "name", Type: "TEXT", NotNull: true},
					{Name: "salary", Type: "REAL"},
				},
				RowCount: 42,
			},
		},
	}
}
