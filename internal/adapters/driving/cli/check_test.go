package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

func TestCheckCmd_HasSubcommands(t *testing.T) {
	commands := checkCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "gen")
	assert.Contains(t, names, "run")
}

func TestCheckGenCmd_ListsQueries(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "gen"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[sql/count] How many employees are there?")
	assert.Contains(t, out, "[web/external] Whats in the news right now?")
	assert.Contains(t, out, "Total: 2 queries")
}

func TestCheckRunCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "run"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Tests: 2   Passed: 2   Failed: 0   Success: 100%")
	assert.Contains(t, out, "Average confidence: 0.80")
	assert.Contains(t, out, "By route:")
	assert.Contains(t, out, "By category:")
}

func TestCheckRunCmd_DetailsFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"check", "run", "--details"})
	defer func() {
		rootCmd.SetArgs(nil)
		_ = checkRunCmd.Flags().Set("details", "false")
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[PASS] sql_count_employees: sql -> sql")
}

func TestCheckRunCmd_FailuresBecomeExitError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	harnessService = &stubHarnessService{results: &domain.TestResults{
		TotalTests:  2,
		Passed:      1,
		Failed:      1,
		SuccessRate: 0.5,
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check", "run"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "1 test(s) failed")
}

func TestCheckRunCmd_PropagatesGenerationError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	harnessService = &stubHarnessService{err: errors.New("schema unavailable")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"check", "run"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "schema unavailable")
}
