package domain

// TestQuery is a synthetic routing test case derived from live data.
type TestQuery struct {
	// ID identifies the test case (e.g. "sql_count_employees").
	ID string `json:"id"`

	// Query is the natural-language question to route.
	Query string `json:"query"`

	// ExpectedRoute is the route the query should take.
	ExpectedRoute Route `json:"expected_route"`

	// Category groups related cases (e.g. "count", "policy", "external").
	Category string `json:"category"`
}

// TestResult is the outcome of running one TestQuery through the router.
type TestResult struct {
	ID            string  `json:"id"`
	Query         string  `json:"query"`
	ExpectedRoute Route   `json:"expected_route"`
	ActualRoute   Route   `json:"actual_route"`
	Passed        bool    `json:"passed"`
	Confidence    float64 `json:"confidence"`

	// ExecutionTimeMs is wall-clock time for the routed answer.
	ExecutionTimeMs float64 `json:"execution_time_ms"`

	Category string `json:"category"`

	// Error captures a router failure in place of an answer.
	Error string `json:"error,omitempty"`
}

// GroupStats counts outcomes within one category or route.
type GroupStats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
}

// TestResults aggregates a full harness run.
// Invariants: Passed+Failed == TotalTests; per-group totals sum to TotalTests.
type TestResults struct {
	TotalTests        int                   `json:"total_tests"`
	Passed            int                   `json:"passed"`
	Failed            int                   `json:"failed"`
	SuccessRate       float64               `json:"success_rate"`
	AverageConfidence float64               `json:"average_confidence"`
	TestDetails       []TestResult          `json:"test_details"`
	ResultsByCategory map[string]GroupStats `json:"results_by_category"`
	ResultsByRoute    map[Route]GroupStats  `json:"results_by_route"`
}
