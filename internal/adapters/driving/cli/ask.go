package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a natural-language question",
	Long: `Route a question to the SQL warehouse, the indexed documents or web
search, and print the synthesized answer with its sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Duration("timeout", askTimeout, "Overall time budget for the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if routerService == nil {
		return errors.New("router service not configured")
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	query := strings.Join(args, " ")
	resp, err := routerService.Answer(ctx, query)
	if err != nil {
		return err
	}

	cmd.Println(resp.Answer)
	cmd.Println()
	cmd.Printf("Route: %s (confidence %.2f)\n", resp.Route, resp.Confidence)
	if resp.SQLExecuted != "" {
		cmd.Printf("SQL: %s\n", resp.SQLExecuted)
	}
	if len(resp.Sources) > 0 {
		cmd.Println("Sources:")
		for _, src := range resp.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	return nil
}
