package mcp

import (
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Router answers natural-language questions.
	Router driving.RouterService

	// Document manages the indexed corpus.
	Document driving.DocumentService

	// Schema describes the relational warehouse.
	Schema driving.SchemaService

	// Harness generates and runs routing tests.
	Harness driving.HarnessService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Router == nil {
		return ErrMissingRouterService
	}
	// Document, Schema and Harness are optional; their tools are
	// registered only when present.
	return nil
}
