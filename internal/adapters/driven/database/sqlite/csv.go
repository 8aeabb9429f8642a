package sqlite

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

var identifierCleaner = regexp.MustCompile(`[^a-z0-9_]+`)

// ImportCSVDir loads every *.csv file in dir into the warehouse, one
// table per file. Existing tables with the same name are replaced.
// Returns the names of the tables created.
func (s *Store) ImportCSVDir(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading csv directory: %w", err)
	}

	var tables []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		table := cleanIdentifier(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if table == "" {
			continue
		}

		if err := s.ImportCSV(ctx, filepath.Join(dir, entry.Name()), table); err != nil {
			return nil, fmt.Errorf("importing %s: %w", entry.Name(), err)
		}
		tables = append(tables, table)
	}

	return tables, nil
}

// ImportCSV loads a single CSV file into the named table, replacing
// any existing table of that name. The first record is the header.
func (s *Store) ImportCSV(ctx context.Context, path, table string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: reading csv header: %v", domain.ErrInvalidInput, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		col := cleanIdentifier(h)
		if col == "" {
			col = fmt.Sprintf("column_%d", i)
		}
		columns[i] = col
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading csv record: %v", domain.ErrInvalidInput, err)
		}
		records = append(records, record)
	}

	types := inferColumnTypes(columns, records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
		return fmt.Errorf("dropping old table: %w", err)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%q %s", col, types[i])
	}
	createStmt := fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insertStmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insertStmt.Close()

	for _, record := range records {
		values := make([]any, len(columns))
		for i := range columns {
			if i >= len(record) || record[i] == "" {
				values[i] = nil
				continue
			}
			values[i] = convertValue(record[i], types[i])
		}
		if _, err := insertStmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// cleanIdentifier lowercases a name and replaces anything that is not
// a letter, digit or underscore.
func cleanIdentifier(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	name = identifierCleaner.ReplaceAllString(name, "")
	return strings.Trim(name, "_")
}

// inferColumnTypes picks INTEGER, REAL or TEXT per column by scanning
// all non-empty values.
func inferColumnTypes(columns []string, records [][]string) []string {
	types := make([]string, len(columns))
	for i := range columns {
		types[i] = inferType(records, i)
	}
	return types
}

func inferType(records [][]string, col int) string {
	sawValue := false
	isInt := true
	isReal := true

	for _, record := range records {
		if col >= len(record) || record[col] == "" {
			continue
		}
		sawValue = true
		v := record[col]
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isReal = false
		}
		if !isInt && !isReal {
			break
		}
	}

	switch {
	case !sawValue:
		return "TEXT"
	case isInt:
		return "INTEGER"
	case isReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func convertValue(raw, colType string) any {
	switch colType {
	case "INTEGER":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case "REAL":
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}
