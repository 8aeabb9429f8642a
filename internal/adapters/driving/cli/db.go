package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Warehouse maintenance commands",
	Long:  `Import CSV data into the warehouse and run ad-hoc SQL against it.`,
}

var dbImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import CSV files as warehouse tables",
	Long: `Import every .csv file in the directory as a table. The table name is
the file name without extension; an existing table of the same name is
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runDBImport,
}

var dbQueryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a SQL statement against the warehouse",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDBQuery,
}

func init() {
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbQueryCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBImport(cmd *cobra.Command, args []string) error {
	if warehouse == nil {
		return errors.New("warehouse not available")
	}

	tables, err := warehouse.ImportCSVDir(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("importing CSV files: %w", err)
	}
	if len(tables) == 0 {
		cmd.Println("No CSV files found.")
		return nil
	}

	cmd.Printf("Imported %d table(s):\n", len(tables))
	for _, table := range tables {
		cmd.Printf("  %s\n", table)
	}
	return nil
}

func runDBQuery(cmd *cobra.Command, args []string) error {
	if warehouse == nil {
		return errors.New("warehouse not available")
	}

	query := strings.Join(args, " ")
	rows, err := warehouse.Execute(cmd.Context(), query)
	if err != nil {
		return err
	}

	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			continue
		}
		cmd.Printf("%s\n", line)
	}
	cmd.Printf("(%d row(s))\n", len(rows))
	return nil
}
