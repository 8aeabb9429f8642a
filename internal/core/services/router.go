package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
	"github.com/helmsman-ai/helmsman/internal/logger"
)

// Ensure RouterService implements the interface.
var _ driving.RouterService = (*RouterService)(nil)

const (
	// maxContextChunks is how many retrieved chunks feed synthesis.
	maxContextChunks = 3

	// maxChunkExcerpt bounds the text taken from each chunk.
	maxChunkExcerpt = 500

	// maxAnswerRows bounds how many result rows are shown to the
	// answer-drafting model.
	maxAnswerRows = 10

	// maxWebResults bounds how many search hits feed synthesis.
	maxWebResults = 3
)

const sqlTranslationPrompt = `You are a SQL expert. Convert the question into a single SQLite SELECT statement.

Database schema:
%s

Question: %s

RULES:
- Return ONLY the SQL statement, no explanation and no markdown.
- Use only tables and columns that appear in the schema.
- Use explicit column names when aggregating.
- Limit results to 100 rows unless the question asks for a count.

SQL:`

const sqlAnswerPrompt = `Answer the question using the query results below.

Question: %s
SQL executed: %s
Results (first %d rows):
%s

Give a concise natural-language answer based only on these results.`

const docsAnswerPrompt = `Answer the question using only the context below.

Context:
%s

Question: %s

If the context does not contain the answer, say it is not covered by the indexed documents. Be concise.`

const webAnswerPrompt = `Answer the question using the web search results below.

Search results:
%s

Question: %s

Give a concise answer and note that it is based on web search results.`

// routeHandler produces an answer for one route. The classifier picks
// exactly one handler per query.
type routeHandler interface {
	answer(ctx context.Context, query string) (*domain.QueryResponse, error)
}

type routeHandlerFunc func(ctx context.Context, query string) (*domain.QueryResponse, error)

func (f routeHandlerFunc) answer(ctx context.Context, query string) (*domain.QueryResponse, error) {
	return f(ctx, query)
}

// RouterService answers natural-language questions. Each request is an
// independent unit of work: the service holds only read references to
// its collaborators and no per-request state.
//
// The LLM service, relational store and web searcher are optional.
// Missing services degrade the affected route instead of failing it.
type RouterService struct {
	llm       driven.LLMService
	warehouse driven.RelationalStore
	retrieval *RetrievalService
	docStore  driven.DocumentStore
	searcher  driven.WebSearcher

	handlers map[domain.Route]routeHandler
}

// NewRouterService creates a router. llm, warehouse and searcher may be
// nil; retrieval may be nil when no corpus services are configured.
func NewRouterService(
	llm driven.LLMService,
	warehouse driven.RelationalStore,
	retrieval *RetrievalService,
	docStore driven.DocumentStore,
	searcher driven.WebSearcher,
) *RouterService {
	s := &RouterService{
		llm:       llm,
		warehouse: warehouse,
		retrieval: retrieval,
		docStore:  docStore,
		searcher:  searcher,
	}
	s.handlers = map[domain.Route]routeHandler{
		domain.RouteSQL:  routeHandlerFunc(s.answerSQL),
		domain.RouteDocs: routeHandlerFunc(s.answerDocs),
		domain.RouteWeb:  routeHandlerFunc(s.answerWeb),
	}
	return s
}

// Answer classifies the query, runs the chosen route and returns the
// synthesized response. An empty query (after trimming) is rejected
// with domain.ErrInvalidInput. A context deadline that expires inside a
// route surfaces as domain.ErrRouteTimeout.
func (s *RouterService) Answer(ctx context.Context, query string) (*domain.QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Routing")
	schema := s.schemaSnapshot(ctx)
	corpus := s.corpusSnapshot(ctx)

	route, _ := Classify(query, schema, corpus)
	logger.Debug("query routed to %s: %q", route, query)

	resp, err := s.handlers[route].answer(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s route: %v", domain.ErrRouteTimeout, route, err)
		}
		return nil, err
	}
	return resp, nil
}

// schemaSnapshot returns the current warehouse schema, or an empty
// schema when no warehouse is configured or introspection fails. The
// classifier treats an empty schema as "SQL route has no backing data".
func (s *RouterService) schemaSnapshot(ctx context.Context) *domain.Schema {
	if s.warehouse == nil {
		return &domain.Schema{}
	}
	schema, err := s.warehouse.Schema(ctx)
	if err != nil {
		logger.Warn("schema snapshot failed: %v", err)
		return &domain.Schema{}
	}
	return schema
}

// corpusSnapshot returns the indexed documents for classification, or
// nil when listing fails.
func (s *RouterService) corpusSnapshot(ctx context.Context) []domain.Document {
	if s.docStore == nil {
		return nil
	}
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		logger.Warn("corpus snapshot failed: %v", err)
		return nil
	}
	return docs
}

// answerSQL translates the question to SQL, executes it and renders the
// rows. Translation or execution failures degrade in place: the route
// stays SQL and the response explains the failure at low confidence.
// Falling back to another route is deliberately not done, so a caller
// can always tell which subsystem produced the answer.
func (s *RouterService) answerSQL(ctx context.Context, query string) (*domain.QueryResponse, error) {
	if s.warehouse == nil {
		return degraded(domain.RouteSQL, "No database is configured, so this question cannot be answered from structured data.", confidenceUnavailable), nil
	}
	if s.llm == nil {
		return degraded(domain.RouteSQL, "No language model is configured, so the question cannot be translated to SQL.", confidenceUnavailable), nil
	}

	schema, err := s.warehouse.Schema(ctx)
	if err != nil {
		return degraded(domain.RouteSQL, fmt.Sprintf("The database schema could not be read: %v", err), confidenceDegraded), nil
	}

	sql, err := s.translateToSQL(ctx, query, schema)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("sql translation failed: %v", err)
		return degraded(domain.RouteSQL, fmt.Sprintf("I could not translate the question into a database query: %v", err), confidenceDegraded), nil
	}
	logger.Debug("translated SQL: %s", sql)

	rows, err := s.warehouse.Execute(ctx, sql)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("sql execution failed: %v", err)
		resp := degraded(domain.RouteSQL, fmt.Sprintf("The generated query failed to execute: %v", err), confidenceDegraded)
		resp.SQLExecuted = sql
		return resp, nil
	}

	answer := s.renderSQLAnswer(ctx, query, sql, rows)
	return &domain.QueryResponse{
		Answer:      answer,
		Sources:     []string{},
		SQLExecuted: sql,
		Confidence:  confidenceSQL,
		Route:       domain.RouteSQL,
	}, nil
}

// translateToSQL asks the model for a single statement and strips any
// markdown fences it wrapped around it.
func (s *RouterService) translateToSQL(ctx context.Context, query string, schema *domain.Schema) (string, error) {
	schemaJSON, err := json.MarshalIndent(schema.Tables, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encoding schema: %v", domain.ErrTranslationFailed, err)
	}

	prompt := fmt.Sprintf(sqlTranslationPrompt, schemaJSON, query)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}

	sql := stripSQLFences(raw)
	if sql == "" {
		return "", fmt.Errorf("%w: model returned no statement", domain.ErrTranslationFailed)
	}
	return sql, nil
}

// stripSQLFences removes a leading ```sql (or bare ```) fence and a
// trailing ``` fence from model output.
func stripSQLFences(raw string) string {
	sql := strings.TrimSpace(raw)
	if strings.HasPrefix(sql, "```sql") {
		sql = strings.TrimPrefix(sql, "```sql")
	} else {
		sql = strings.TrimPrefix(sql, "```")
	}
	sql = strings.TrimSuffix(strings.TrimSpace(sql), "```")
	return strings.TrimSpace(sql)
}

// renderSQLAnswer drafts a natural-language answer from the rows,
// falling back to a mechanical rendering when generation fails.
func (s *RouterService) renderSQLAnswer(ctx context.Context, query, sql string, rows []domain.Row) string {
	shown := rows
	if len(shown) > maxAnswerRows {
		shown = shown[:maxAnswerRows]
	}
	rendered := renderRows(shown)

	prompt := fmt.Sprintf(sqlAnswerPrompt, query, sql, len(shown), rendered)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 300})
	if err != nil {
		logger.Warn("sql answer drafting failed, rendering rows directly: %v", err)
		if len(rows) == 0 {
			return "The query returned no rows."
		}
		return fmt.Sprintf("The query returned %d row(s):\n%s", len(rows), rendered)
	}
	return strings.TrimSpace(answer)
}

// renderRows formats rows as one JSON object per line, with stable key
// order from encoding/json map sorting.
func renderRows(rows []domain.Row) string {
	if len(rows) == 0 {
		return "(no rows)"
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		line, err := json.Marshal(row)
		if err != nil {
			b.WriteString(fmt.Sprintf("%v", row))
			continue
		}
		b.Write(line)
	}
	return b.String()
}

// answerDocs retrieves the most relevant chunks and synthesizes an
// answer grounded only in them. Sources list distinct document names in
// the order first referenced.
func (s *RouterService) answerDocs(ctx context.Context, query string) (*domain.QueryResponse, error) {
	if s.retrieval == nil {
		return degraded(domain.RouteDocs, "Document search is not available.", confidenceUnavailable), nil
	}

	chunks, err := s.retrieval.Retrieve(ctx, query, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("retrieval failed: %v", err)
		return degraded(domain.RouteDocs, fmt.Sprintf("Document retrieval failed: %v", err), confidenceDegraded), nil
	}
	if len(chunks) == 0 {
		resp := degraded(domain.RouteDocs, "No relevant documents found for this question.", confidenceNoDocs)
		return resp, nil
	}

	if len(chunks) > maxContextChunks {
		chunks = chunks[:maxContextChunks]
	}

	var grounding strings.Builder
	var sources []string
	seen := make(map[string]bool)
	for i, rc := range chunks {
		if i > 0 {
			grounding.WriteString("\n\n")
		}
		excerpt := rc.Chunk.Content
		if len(excerpt) > maxChunkExcerpt {
			excerpt = excerpt[:maxChunkExcerpt]
		}
		fmt.Fprintf(&grounding, "[%s]\n%s", rc.DocumentName, excerpt)
		if !seen[rc.DocumentName] {
			seen[rc.DocumentName] = true
			sources = append(sources, rc.DocumentName)
		}
	}

	answer := s.synthesize(ctx, fmt.Sprintf(docsAnswerPrompt, grounding.String(), query), grounding.String(), 400)
	return &domain.QueryResponse{
		Answer:     answer,
		Sources:    sources,
		Confidence: confidenceDocs,
		Route:      domain.RouteDocs,
	}, nil
}

// answerWeb queries the external search provider and synthesizes an
// answer from the snippets. Without a provider the route degrades to a
// stub response rather than failing the request.
func (s *RouterService) answerWeb(ctx context.Context, query string) (*domain.QueryResponse, error) {
	if s.searcher == nil {
		return degraded(domain.RouteWeb, "Web search is not configured. This question needs current or external information that is not in the database or the indexed documents.", confidenceWeb), nil
	}

	results, err := s.searcher.Search(ctx, query, DefaultTopK)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("web search failed: %v", err)
		return degraded(domain.RouteWeb, fmt.Sprintf("Web search failed: %v", err), confidenceDegraded), nil
	}
	if len(results) == 0 {
		return degraded(domain.RouteWeb, "Web search returned no results for this question.", confidenceDegraded), nil
	}

	if len(results) > maxWebResults {
		results = results[:maxWebResults]
	}

	var grounding strings.Builder
	sources := make([]string, 0, len(results))
	for i, r := range results {
		if i > 0 {
			grounding.WriteString("\n\n")
		}
		fmt.Fprintf(&grounding, "%s (%s)\n%s", r.Title, r.URL, r.Snippet)
		sources = append(sources, r.URL)
	}

	answer := s.synthesize(ctx, fmt.Sprintf(webAnswerPrompt, grounding.String(), query), grounding.String(), 300)
	return &domain.QueryResponse{
		Answer:     answer,
		Sources:    sources,
		Confidence: confidenceWeb,
		Route:      domain.RouteWeb,
	}, nil
}

// synthesize drafts an answer with the LLM, falling back to the raw
// context when no model is configured or generation fails.
func (s *RouterService) synthesize(ctx context.Context, prompt, fallback string, maxTokens int) string {
	if s.llm == nil {
		return fallback
	}
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: maxTokens})
	if err != nil {
		logger.Warn("answer drafting failed, returning context excerpts: %v", err)
		return fallback
	}
	return strings.TrimSpace(answer)
}

// degraded builds a valid low-confidence response for a route whose
// subsystem could not produce a real answer.
func degraded(route domain.Route, answer string, confidence float64) *domain.QueryResponse {
	return &domain.QueryResponse{
		Answer:     answer,
		Sources:    []string{},
		Confidence: confidence,
		Route:      route,
	}
}
