package mcp

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns routed answer", func(t *testing.T) {
		router := &mockRouterService{
			response: &domain.QueryResponse{
				Answer:      "There are 42 employees.",
				Sources:     []string{},
				SQLExecuted: "SELECT COUNT(*) FROM employees",
				Confidence:  0.9,
				Route:       domain.RouteSQL,
			},
		}
		server := newTestServer(t, &Ports{Router: router})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "How many employees are there?"})
		require.NoError(t, err)

		assert.Equal(t, "There are 42 employees.", output.Answer)
		assert.Equal(t, "sql", output.Route)
		assert.Equal(t, "SELECT COUNT(*) FROM employees", output.SQLExecuted)
		assert.InDelta(t, 0.9, output.Confidence, 1e-9)
		require.Len(t, router.queries, 1)
	})

	t.Run("propagates router error", func(t *testing.T) {
		router := &mockRouterService{err: domain.ErrInvalidInput}
		server := newTestServer(t, &Ports{Router: router})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Query: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text payload", func(t *testing.T) {
		docs := &mockDocumentService{
			record: &domain.DocumentRecord{ID: "doc-1", Name: "Leave Policy", ChunkCount: 1},
		}
		server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: docs})

		_, output, err := server.handleUpload(ctx, nil, UploadInput{
			Name:     "Leave Policy",
			Content:  "Employees get 15 vacation days.",
			MIMEType: "text/plain",
		})
		require.NoError(t, err)

		assert.Equal(t, "doc-1", output.ID)
		assert.Equal(t, 1, output.ChunkCount)
		require.Len(t, docs.payloads, 1)
		assert.Equal(t, []byte("Employees get 15 vacation days."), docs.payloads[0])
	})

	t.Run("base64 payload is decoded", func(t *testing.T) {
		docs := &mockDocumentService{
			record: &domain.DocumentRecord{ID: "doc-2", Name: "binary", ChunkCount: 1},
		}
		server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: docs})

		raw := []byte{0x25, 0x50, 0x44, 0x46}
		_, _, err := server.handleUpload(ctx, nil, UploadInput{
			Name:     "binary",
			Content:  base64.StdEncoding.EncodeToString(raw),
			MIMEType: "application/pdf",
			Encoding: "base64",
		})
		require.NoError(t, err)
		require.Len(t, docs.payloads, 1)
		assert.Equal(t, raw, docs.payloads[0])
	})

	t.Run("invalid base64 fails", func(t *testing.T) {
		server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: &mockDocumentService{}})

		_, _, err := server.handleUpload(ctx, nil, UploadInput{
			Name:     "bad",
			Content:  "not base64!!!",
			MIMEType: "application/pdf",
			Encoding: "base64",
		})
		assert.Error(t, err)
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	docs := &mockDocumentService{
		records: []domain.DocumentRecord{
			{ID: "doc-1", Name: "Leave Policy", ChunkCount: 2},
			{ID: "doc-2", Name: "Security Guidelines", ChunkCount: 5},
		},
	}
	server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: docs})

	_, output, err := server.handleListDocuments(context.Background(), nil, struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Documents, 2)
	assert.Equal(t, "Leave Policy", output.Documents[0].Name)
	assert.Equal(t, 5, output.Documents[1].ChunkCount)
}

func TestServer_handleDeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes by id", func(t *testing.T) {
		docs := &mockDocumentService{}
		server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: docs})

		_, output, err := server.handleDeleteDocument(ctx, nil, DeleteInput{DocumentID: "doc-1"})
		require.NoError(t, err)
		assert.True(t, output.Deleted)
		assert.Equal(t, []string{"doc-1"}, docs.removed)
	})

	t.Run("unknown id propagates not found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Router: &mockRouterService{}, Document: docs})

		_, _, err := server.handleDeleteDocument(ctx, nil, DeleteInput{DocumentID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleDescribeSchema(t *testing.T) {
	schema := &mockSchemaService{
		report: &domain.SchemaReport{
			Schema: domain.Schema{
				Tables: map[string]domain.Table{
					"employees": {RowCount: 42},
				},
			},
			SampleData: map[string][]domain.Row{
				"employees": {{"name": "Ada"}},
			},
		},
		queries: []string{"SELECT COUNT(*) FROM employees;"},
	}
	server := newTestServer(t, &Ports{Router: &mockRouterService{}, Schema: schema})

	_, output, err := server.handleDescribeSchema(context.Background(), nil, struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 42, output.Tables["employees"].RowCount)
	assert.Len(t, output.SampleData["employees"], 1)
	assert.Equal(t, []string{"SELECT COUNT(*) FROM employees;"}, output.SampleQueries)
}

func TestServer_handleRunTests(t *testing.T) {
	harness := &mockHarnessService{
		testQueries: []domain.TestQuery{
			{ID: "sql_count_employees", ExpectedRoute: domain.RouteSQL},
		},
		results: &domain.TestResults{TotalTests: 1, Passed: 1, SuccessRate: 1},
	}
	server := newTestServer(t, &Ports{Router: &mockRouterService{}, Harness: harness})

	_, output, err := server.handleRunTests(context.Background(), nil, struct{}{})
	require.NoError(t, err)

	assert.Equal(t, 1, output.Results.TotalTests)
	assert.Equal(t, 1, output.Results.Passed)
}
