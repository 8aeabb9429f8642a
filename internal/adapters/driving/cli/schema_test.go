package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func TestSchemaCmd_Use(t *testing.T) {
	assert.Equal(t, "schema", schemaCmd.Use)
}

func TestSchemaCmd_PrintsTablesAndSamples(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "employees (42 rows)")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "INTEGER NOT NULL")
	assert.Contains(t, out, "Sample rows:")
	assert.Contains(t, out, `"name":"Ada"`)
	// No --samples flag, so no sample queries.
	assert.NotContains(t, out, "Sample queries:")
}

func TestSchemaCmd_SamplesFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema", "--samples"})
	defer func() {
		rootCmd.SetArgs(nil)
		_ = schemaCmd.Flags().Set("samples", "false")
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Sample queries:")
	assert.Contains(t, out, "SELECT COUNT(*) FROM employees;")
}

func TestSchemaCmd_EmptyWarehouse(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	schemaService = &stubSchemaService{report: &domain.SchemaReport{
		Schema:     domain.Schema{Tables: map[string]domain.Table{}},
		SampleData: map[string][]domain.Row{},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"schema"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No tables in the warehouse.")
}

func TestSchemaCmd_ErrorsWithoutService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	schemaService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"schema"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
