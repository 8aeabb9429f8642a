package mcp

import (
	"context"
	"encoding/base64"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the natural-language question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string   `json:"answer"`
	Route       string   `json:"route"`
	Confidence  float64  `json:"confidence"`
	Sources     []string `json:"sources"`
	SQLExecuted string   `json:"sql_executed,omitempty"`
}

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Name     string `json:"name" jsonschema:"document title"`
	Content  string `json:"content" jsonschema:"document text, or base64 bytes when encoding is base64"`
	MIMEType string `json:"mime_type" jsonschema:"declared content type, e.g. text/plain or application/pdf"`
	Encoding string `json:"encoding,omitempty" jsonschema:"set to base64 for binary payloads"`
}

// DocumentOutput is the boundary view of an indexed document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChunkCount int    `json:"chunk_count"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to delete"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// SchemaOutput is the output schema for the describe_schema tool.
type SchemaOutput struct {
	Tables        map[string]domain.Table `json:"tables"`
	SampleData    map[string][]domain.Row `json:"sample_data"`
	SampleQueries []string                `json:"sample_queries"`
}

// RunTestsOutput is the output schema for the run_routing_tests tool.
type RunTestsOutput struct {
	Results domain.TestResults `json:"results"`
}

// registerTools registers all tool handlers with the MCP server.
// Tools for optional services are skipped when the service is absent.
func (s *Server) registerTools() {
	mcp.AddTool(s.inner, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a natural-language question from the database, the indexed documents or the web",
	}, s.handleAsk)

	if s.ports.Document != nil {
		mcp.AddTool(s.inner, &mcp.Tool{
			Name:        "upload_document",
			Description: "Index a document into the searchable corpus",
		}, s.handleUpload)
		mcp.AddTool(s.inner, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all indexed documents",
		}, s.handleListDocuments)
		mcp.AddTool(s.inner, &mcp.Tool{
			Name:        "delete_document",
			Description: "Remove a document and all its chunks from the corpus",
		}, s.handleDeleteDocument)
	}

	if s.ports.Schema != nil {
		mcp.AddTool(s.inner, &mcp.Tool{
			Name:        "describe_schema",
			Description: "Describe the warehouse tables, columns and sample rows",
		}, s.handleDescribeSchema)
	}

	if s.ports.Harness != nil {
		mcp.AddTool(s.inner, &mcp.Tool{
			Name:        "run_routing_tests",
			Description: "Generate routing test queries from live data and score the router against them",
		}, s.handleRunTests)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	resp, err := s.ports.Router.Answer(ctx, input.Query)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:      resp.Answer,
		Route:       string(resp.Route),
		Confidence:  resp.Confidence,
		Sources:     resp.Sources,
		SQLExecuted: resp.SQLExecuted,
	}, nil
}

// handleUpload handles the upload_document tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	payload := []byte(input.Content)
	if input.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(input.Content)
		if err != nil {
			return nil, DocumentOutput{}, err
		}
		payload = decoded
	}

	record, err := s.ports.Document.Index(ctx, input.Name, payload, input.MIMEType)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	return nil, DocumentOutput{
		ID:         record.ID,
		Name:       record.Name,
		ChunkCount: record.ChunkCount,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	records, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(records)),
		Count:     len(records),
	}
	for i := range records {
		output.Documents[i] = DocumentOutput{
			ID:         records[i].ID,
			Name:       records[i].Name,
			ChunkCount: records[i].ChunkCount,
		}
	}
	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Document.Remove(ctx, input.DocumentID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: true}, nil
}

// handleDescribeSchema handles the describe_schema tool invocation.
func (s *Server) handleDescribeSchema(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, SchemaOutput, error) {
	report, err := s.ports.Schema.Describe(ctx)
	if err != nil {
		return nil, SchemaOutput{}, err
	}

	queries, err := s.ports.Schema.SampleQueries(ctx)
	if err != nil {
		return nil, SchemaOutput{}, err
	}

	return nil, SchemaOutput{
		Tables:        report.Schema.Tables,
		SampleData:    report.SampleData,
		SampleQueries: queries,
	}, nil
}

// handleRunTests handles the run_routing_tests tool invocation.
func (s *Server) handleRunTests(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, RunTestsOutput, error) {
	queries, err := s.ports.Harness.GenerateQueries(ctx)
	if err != nil {
		return nil, RunTestsOutput{}, err
	}

	results, err := s.ports.Harness.Run(ctx, queries)
	if err != nil {
		return nil, RunTestsOutput{}, err
	}

	return nil, RunTestsOutput{Results: *results}, nil
}
