package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
	"github.com/helmsman-ai/helmsman/internal/logger"
)

// Ensure HarnessService implements the interface.
var _ driving.HarnessService = (*HarnessService)(nil)

// DefaultHarnessWorkers bounds how many test queries run concurrently.
const DefaultHarnessWorkers = 4

// externalQueries exercise the web route. They reference current or
// external facts that no warehouse or corpus covers.
var externalQueries = []domain.TestQuery{
	{ID: "web_news", Query: "Whats in the news right now?", ExpectedRoute: domain.RouteWeb, Category: "external"},
	{ID: "web_weather", Query: "Will it rain tomorrow?", ExpectedRoute: domain.RouteWeb, Category: "current"},
}

// HarnessService manufactures routing test cases from the live schema
// and corpus and scores the router against them. Queries are derived
// from actual data so the tests track reality rather than fixtures.
type HarnessService struct {
	router    driving.RouterService
	warehouse driven.RelationalStore
	docStore  driven.DocumentStore
	workers   int
}

// NewHarnessService creates a harness. warehouse and docStore may be
// nil; routes without backing data simply generate no queries. workers
// bounds Run's concurrency and defaults when not positive.
func NewHarnessService(
	router driving.RouterService,
	warehouse driven.RelationalStore,
	docStore driven.DocumentStore,
	workers int,
) *HarnessService {
	if workers <= 0 {
		workers = DefaultHarnessWorkers
	}
	return &HarnessService{
		router:    router,
		warehouse: warehouse,
		docStore:  docStore,
		workers:   workers,
	}
}

// GenerateQueries derives test queries from the live schema and corpus.
// Every route with non-empty backing data gets at least one query.
func (s *HarnessService) GenerateQueries(ctx context.Context) ([]domain.TestQuery, error) {
	var queries []domain.TestQuery

	if s.warehouse != nil {
		sqlQueries, err := s.schemaQueries(ctx)
		if err != nil {
			return nil, err
		}
		queries = append(queries, sqlQueries...)
	}

	if s.docStore != nil {
		docQueries, err := s.corpusQueries(ctx)
		if err != nil {
			return nil, err
		}
		queries = append(queries, docQueries...)
	}

	queries = append(queries, externalQueries...)
	logger.Debug("generated %d test queries", len(queries))
	return queries, nil
}

// schemaQueries builds SQL-route cases per table: a count, a lookup and
// an aggregation over the first numeric measure when one exists.
func (s *HarnessService) schemaQueries(ctx context.Context) ([]domain.TestQuery, error) {
	schema, err := s.warehouse.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	names := schema.TableNames()
	sort.Strings(names)

	var queries []domain.TestQuery
	for _, name := range names {
		display := strings.ReplaceAll(name, "_", " ")
		queries = append(queries,
			domain.TestQuery{
				ID:            "sql_count_" + name,
				Query:         fmt.Sprintf("How many %s are there?", display),
				ExpectedRoute: domain.RouteSQL,
				Category:      "count",
			},
			domain.TestQuery{
				ID:            "sql_lookup_" + name,
				Query:         fmt.Sprintf("Show me all %s", display),
				ExpectedRoute: domain.RouteSQL,
				Category:      "lookup",
			},
		)
		if col := firstNumericColumn(schema.Tables[name]); col != "" {
			colDisplay := strings.ReplaceAll(col, "_", " ")
			queries = append(queries, domain.TestQuery{
				ID:            "sql_agg_" + name,
				Query:         fmt.Sprintf("What is the average %s in %s?", colDisplay, display),
				ExpectedRoute: domain.RouteSQL,
				Category:      "aggregation",
			})
		}
	}
	return queries, nil
}

// corpusQueries builds DOCS-route cases per indexed document: a policy
// question and a content question, both referencing the title.
func (s *HarnessService) corpusQueries(ctx context.Context) ([]domain.TestQuery, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corpus: %w", err)
	}

	var queries []domain.TestQuery
	for i := range docs {
		name := docs[i].Name
		slug := slugify(name)
		queries = append(queries,
			domain.TestQuery{
				ID:            "docs_policy_" + slug,
				Query:         fmt.Sprintf("What is our policy on %s?", strings.ToLower(name)),
				ExpectedRoute: domain.RouteDocs,
				Category:      "policy",
			},
			domain.TestQuery{
				ID:            "docs_content_" + slug,
				Query:         fmt.Sprintf("What does the %s document cover?", strings.ToLower(name)),
				ExpectedRoute: domain.RouteDocs,
				Category:      "content",
			},
		)
	}
	return queries, nil
}

// Run executes every query through the router with bounded concurrency
// and aggregates the outcomes. A router failure on one query is
// recorded as a failed result; the batch always completes.
func (s *HarnessService) Run(ctx context.Context, queries []domain.TestQuery) (*domain.TestResults, error) {
	logger.Section("Harness Run")
	details := make([]domain.TestResult, len(queries))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i := range queries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			details[i] = s.runOne(ctx, queries[i])
		}(i)
	}
	wg.Wait()

	return aggregate(details), nil
}

// runOne routes a single test query and scores the outcome.
func (s *HarnessService) runOne(ctx context.Context, q domain.TestQuery) domain.TestResult {
	result := domain.TestResult{
		ID:            q.ID,
		Query:         q.Query,
		ExpectedRoute: q.ExpectedRoute,
		Category:      q.Category,
	}

	start := time.Now()
	resp, err := s.router.Answer(ctx, q.Query)
	result.ExecutionTimeMs = float64(time.Since(start)) / float64(time.Millisecond)

	if err != nil {
		result.Error = err.Error()
		logger.Warn("harness: %s failed: %v", q.ID, err)
		return result
	}

	result.ActualRoute = resp.Route
	result.Confidence = resp.Confidence
	result.Passed = resp.Route == q.ExpectedRoute
	return result
}

// aggregate folds per-query results into the run summary. The counters
// satisfy Passed+Failed == TotalTests and each group's totals sum back
// to TotalTests.
func aggregate(details []domain.TestResult) *domain.TestResults {
	results := &domain.TestResults{
		TotalTests:        len(details),
		TestDetails:       details,
		ResultsByCategory: make(map[string]domain.GroupStats),
		ResultsByRoute:    make(map[domain.Route]domain.GroupStats),
	}

	var confidenceSum float64
	for _, r := range details {
		if r.Passed {
			results.Passed++
		} else {
			results.Failed++
		}
		confidenceSum += r.Confidence

		cat := results.ResultsByCategory[r.Category]
		cat.Total++
		if r.Passed {
			cat.Passed++
		}
		results.ResultsByCategory[r.Category] = cat

		route := results.ResultsByRoute[r.ExpectedRoute]
		route.Total++
		if r.Passed {
			route.Passed++
		}
		results.ResultsByRoute[r.ExpectedRoute] = route
	}

	if results.TotalTests > 0 {
		results.SuccessRate = float64(results.Passed) / float64(results.TotalTests)
		results.AverageConfidence = confidenceSum / float64(results.TotalTests)
	}
	return results
}

// slugify turns a document name into an id-safe fragment.
func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
