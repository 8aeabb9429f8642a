package mcp

import (
	"context"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// mockRouterService is a mock implementation of driving.RouterService.
type mockRouterService struct {
	response *domain.QueryResponse
	err      error
	queries  []string
}

func (m *mockRouterService) Answer(_ context.Context, query string) (*domain.QueryResponse, error) {
	m.queries = append(m.queries, query)
	return m.response, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	record   *domain.DocumentRecord
	records  []domain.DocumentRecord
	err      error
	indexed  []string
	removed  []string
	payloads [][]byte
}

func (m *mockDocumentService) Index(_ context.Context, name string, content []byte, _ string) (*domain.DocumentRecord, error) {
	m.indexed = append(m.indexed, name)
	m.payloads = append(m.payloads, content)
	return m.record, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, documentID string) error {
	m.removed = append(m.removed, documentID)
	return m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

// mockSchemaService is a mock implementation of driving.SchemaService.
type mockSchemaService struct {
	report  *domain.SchemaReport
	queries []string
	err     error
}

func (m *mockSchemaService) Describe(_ context.Context) (*domain.SchemaReport, error) {
	return m.report, m.err
}

func (m *mockSchemaService) SampleQueries(_ context.Context) ([]string, error) {
	return m.queries, m.err
}

// mockHarnessService is a mock implementation of driving.HarnessService.
type mockHarnessService struct {
	testQueries []domain.TestQuery
	results     *domain.TestResults
	err         error
}

func (m *mockHarnessService) GenerateQueries(_ context.Context) ([]domain.TestQuery, error) {
	return m.testQueries, m.err
}

func (m *mockHarnessService) Run(_ context.Context, _ []domain.TestQuery) (*domain.TestResults, error) {
	return m.results, m.err
}
