package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// setupTestServices swaps the package-level services for mocks and
// disables service wiring for the duration of a test. The returned
// cleanup restores the previous state.
func setupTestServices() func() {
	oldPreRun := rootCmd.PersistentPreRunE
	oldWarehouse := warehouse
	oldRouter := routerService
	oldDocument := documentService
	oldSchema := schemaService
	oldHarness := harnessService

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	warehouse = nil
	routerService = &stubRouterService{}
	documentService = &stubDocumentService{}
	schemaService = &stubSchemaService{}
	harnessService = &stubHarnessService{}

	return func() {
		rootCmd.PersistentPreRunE = oldPreRun
		warehouse = oldWarehouse
		routerService = oldRouter
		documentService = oldDocument
		schemaService = oldSchema
		harnessService = oldHarness
	}
}

type stubRouterService struct {
	resp *domain.QueryResponse
	err  error
}

func (s *stubRouterService) Answer(_ context.Context, query string) (*domain.QueryResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.resp != nil {
		return s.resp, nil
	}
	return &domain.QueryResponse{
		Answer:     "Answer to: " + query,
		Sources:    []string{"Leave Policy"},
		Route:      domain.RouteDocs,
		Confidence: 0.8,
	}, nil
}

type stubDocumentService struct {
	records []domain.DocumentRecord
	err     error
}

func (s *stubDocumentService) Index(_ context.Context, name string, _ []byte, _ string) (*domain.DocumentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DocumentRecord{ID: "doc-123", Name: name, ChunkCount: 2}, nil
}

func (s *stubDocumentService) Remove(_ context.Context, _ string) error {
	return s.err
}

func (s *stubDocumentService) List(_ context.Context) ([]domain.DocumentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type stubSchemaService struct {
	report  *domain.SchemaReport
	queries []string
	err     error
}

func (s *stubSchemaService) Describe(_ context.Context) (*domain.SchemaReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.report != nil {
		return s.report, nil
	}
	return &domain.SchemaReport{
		Schema: domain.Schema{
			Tables: map[string]domain.Table{
				"employees": {
					Columns: []domain.Column{
						{Name: "id", Type: "INTEGER", NotNull: true},
						{Name: "name", Type: "TEXT"},
					},
					RowCount: 42,
				},
			},
		},
		SampleData: map[string][]domain.Row{
			"employees": {{"id": 1, "name": "Ada"}},
		},
	}, nil
}

func (s *stubSchemaService) SampleQueries(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.queries != nil {
		return s.queries, nil
	}
	return []string{"SELECT COUNT(*) FROM employees;"}, nil
}

type stubHarnessService struct {
	queries []domain.TestQuery
	results *domain.TestResults
	err     error
}

func (s *stubHarnessService) GenerateQueries(_ context.Context) ([]domain.TestQuery, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.queries != nil {
		return s.queries, nil
	}
	return []domain.TestQuery{
		{ID: "sql_count_employees", Query: "How many employees are there?", ExpectedRoute: domain.RouteSQL, Category: "count"},
		{ID: "web_news", Query: "Whats in the news right now?", ExpectedRoute: domain.RouteWeb, Category: "external"},
	}, nil
}

func (s *stubHarnessService) Run(_ context.Context, queries []domain.TestQuery) (*domain.TestResults, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.results != nil {
		return s.results, nil
	}
	details := make([]domain.TestResult, 0, len(queries))
	byRoute := make(map[domain.Route]domain.GroupStats)
	byCategory := make(map[string]domain.GroupStats)
	for _, q := range queries {
		details = append(details, domain.TestResult{
			ID:            q.ID,
			Query:         q.Query,
			ExpectedRoute: q.ExpectedRoute,
			ActualRoute:   q.ExpectedRoute,
			Passed:        true,
			Confidence:    0.8,
			Category:      q.Category,
		})
		r := byRoute[q.ExpectedRoute]
		r.Total++
		r.Passed++
		byRoute[q.ExpectedRoute] = r
		c := byCategory[q.Category]
		c.Total++
		c.Passed++
		byCategory[q.Category] = c
	}
	return &domain.TestResults{
		TotalTests:        len(queries),
		Passed:            len(queries),
		SuccessRate:       1.0,
		AverageConfidence: 0.8,
		TestDetails:       details,
		ResultsByCategory: byCategory,
		ResultsByRoute:    byRoute,
	}, nil
}
