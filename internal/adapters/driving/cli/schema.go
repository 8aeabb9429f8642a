package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Describe the warehouse schema",
	Long:  `Print the warehouse tables, columns, row counts and sample rows.`,
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().Bool("samples", false, "Also print runnable sample queries")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	report, err := schemaService.Describe(cmd.Context())
	if err != nil {
		return fmt.Errorf("describing schema: %w", err)
	}

	names := report.Schema.TableNames()
	sort.Strings(names)

	if len(names) == 0 {
		cmd.Println("No tables in the warehouse.")
		return nil
	}

	for _, name := range names {
		table := report.Schema.Tables[name]
		cmd.Printf("%s (%d rows)\n", name, table.RowCount)
		for _, col := range table.Columns {
			constraint := ""
			if col.NotNull {
				constraint = " NOT NULL"
			}
			cmd.Printf("  %-20s %s%s\n", col.Name, col.Type, constraint)
		}
		if rows := report.SampleData[name]; len(rows) > 0 {
			cmd.Println("  Sample rows:")
			for _, row := range rows {
				line, err := json.Marshal(row)
				if err != nil {
					continue
				}
				cmd.Printf("    %s\n", line)
			}
		}
		cmd.Println()
	}

	showSamples, err := cmd.Flags().GetBool("samples")
	if err != nil {
		return err
	}
	if showSamples {
		queries, err := schemaService.SampleQueries(cmd.Context())
		if err != nil {
			return fmt.Errorf("deriving sample queries: %w", err)
		}
		cmd.Println("Sample queries:")
		for _, q := range queries {
			cmd.Printf("  %s\n", q)
		}
	}
	return nil
}
