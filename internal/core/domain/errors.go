package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input,
	// including an empty query after trimming.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format with no registered normaliser.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionFailed indicates text could not be extracted from a document.
	// No chunks are stored when extraction fails.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrTranslationFailed indicates the question could not be translated
	// into an executable SQL statement.
	ErrTranslationFailed = errors.New("query translation failed")

	// ErrExecutionFailed indicates a translated SQL statement ran but failed,
	// e.g. an unknown column or malformed expression.
	ErrExecutionFailed = errors.New("query execution failed")

	// ErrGenerationFailed indicates the answer-drafting backend errored
	// or is unreachable.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrRouteTimeout indicates a subsystem exceeded the caller-supplied deadline.
	ErrRouteTimeout = errors.New("route timed out")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// SQL translation and answer synthesis are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Document retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrWebSearchUnavailable indicates no web search provider is configured.
	ErrWebSearchUnavailable = errors.New("web search unavailable")

	// ErrDatabaseUnavailable indicates the relational store is not configured.
	ErrDatabaseUnavailable = errors.New("database unavailable")
)
