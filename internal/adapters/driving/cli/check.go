package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the router against live data",
	Long: `Generate routing test queries from the actual schema and corpus, run
them through the router and report pass rates by route and category.`,
}

var checkGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Show the test queries that would run",
	RunE:  runCheckGen,
}

var checkRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and run all routing tests",
	RunE:  runCheckRun,
}

func init() {
	checkRunCmd.Flags().Bool("details", false, "Print every test result")
	checkCmd.AddCommand(checkGenCmd)
	checkCmd.AddCommand(checkRunCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheckGen(cmd *cobra.Command, _ []string) error {
	if harnessService == nil {
		return errors.New("harness service not configured")
	}

	queries, err := harnessService.GenerateQueries(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating test queries: %w", err)
	}

	for _, q := range queries {
		cmd.Printf("  [%s/%s] %s\n", q.ExpectedRoute, q.Category, q.Query)
	}
	cmd.Printf("Total: %d queries\n", len(queries))
	return nil
}

func runCheckRun(cmd *cobra.Command, _ []string) error {
	if harnessService == nil {
		return errors.New("harness service not configured")
	}

	queries, err := harnessService.GenerateQueries(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating test queries: %w", err)
	}

	results, err := harnessService.Run(cmd.Context(), queries)
	if err != nil {
		return fmt.Errorf("running tests: %w", err)
	}

	cmd.Printf("Tests: %d   Passed: %d   Failed: %d   Success: %.0f%%\n",
		results.TotalTests, results.Passed, results.Failed, results.SuccessRate*100)
	cmd.Printf("Average confidence: %.2f\n\n", results.AverageConfidence)

	cmd.Println("By route:")
	for _, route := range domain.Routes() {
		if stats, ok := results.ResultsByRoute[route]; ok {
			cmd.Printf("  %-6s %d/%d\n", route, stats.Passed, stats.Total)
		}
	}

	cmd.Println("By category:")
	categories := make([]string, 0, len(results.ResultsByCategory))
	for cat := range results.ResultsByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		stats := results.ResultsByCategory[cat]
		cmd.Printf("  %-12s %d/%d\n", cat, stats.Passed, stats.Total)
	}

	showDetails, err := cmd.Flags().GetBool("details")
	if err != nil {
		return err
	}
	if showDetails {
		cmd.Println()
		for _, d := range results.TestDetails {
			status := "PASS"
			if !d.Passed {
				status = "FAIL"
			}
			cmd.Printf("  [%s] %s: %s -> %s (%.0fms)\n",
				status, d.ID, d.ExpectedRoute, d.ActualRoute, d.ExecutionTimeMs)
			if d.Error != "" {
				cmd.Printf("         error: %s\n", d.Error)
			}
		}
	}

	if results.Failed > 0 {
		return fmt.Errorf("%d test(s) failed", results.Failed)
	}
	return nil
}
