package domain

// Route is the answering strategy chosen for a query.
// Exactly one route is taken per query.
type Route string

const (
	// RouteSQL answers by translating the question to SQL and
	// executing it against the relational warehouse.
	RouteSQL Route = "sql"

	// RouteDocs answers by retrieving indexed document chunks and
	// synthesizing from them.
	RouteDocs Route = "docs"

	// RouteWeb answers from external web search results.
	RouteWeb Route = "web"
)

// Routes lists all routes in tie-break priority order.
func Routes() []Route {
	return []Route{RouteSQL, RouteDocs, RouteWeb}
}

// Valid reports whether the route is one of the known variants.
func (r Route) Valid() bool {
	switch r {
	case RouteSQL, RouteDocs, RouteWeb:
		return true
	}
	return false
}

// QueryResponse is the answer produced for a single query.
// It is built fresh per request and never cached.
type QueryResponse struct {
	// Answer is the synthesized natural-language answer.
	Answer string `json:"answer"`

	// Sources lists the distinct origins cited, in the order first
	// referenced. Empty for SQL-only answers.
	Sources []string `json:"sources"`

	// SQLExecuted is the literal SQL statement run, when the SQL
	// route was taken.
	SQLExecuted string `json:"sql_executed,omitempty"`

	// Confidence is the synthesizer's self-assessed reliability in [0,1].
	// Informational only; never used to re-route.
	Confidence float64 `json:"confidence"`

	// Route is the strategy that produced the answer.
	Route Route `json:"route"`
}

// WebResult is a single external search hit.
type WebResult struct {
	// Title is the result title.
	Title string

	// URL is the source attribution.
	URL string

	// Snippet is the extract shown for the result.
	Snippet string

	// Score is the provider-reported relevance, when available.
	Score float64
}
