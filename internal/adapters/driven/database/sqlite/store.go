// Package sqlite provides the relational warehouse that SQL-routed
// queries run against, backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/helmsman-ai/helmsman/internal/core/domain"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RelationalStore = (*Store)(nil)

// Store executes SQL against the warehouse database and snapshots
// its schema for translation prompts.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the warehouse database at the specified data directory.
// If dataDir is empty, defaults to ~/.helmsman/data/warehouse.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".helmsman", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "warehouse.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Store{
		db:   db,
		path: dbPath,
	}, nil
}

// Execute runs a SQL statement and returns the result rows.
func (s *Store) Execute(ctx context.Context, query string) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}

	var results []domain.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			// BLOB columns scan as []byte, which renders poorly in
			// prompts and JSON, so convert to string.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}

	return results, nil
}

// Schema returns a fresh snapshot of tables, columns and row counts.
func (s *Store) Schema(ctx context.Context) (*domain.Schema, error) {
	names, err := s.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	schema := &domain.Schema{
		Tables: make(map[string]domain.Table, len(names)),
	}

	for _, name := range names {
		table, err := s.describeTable(ctx, name)
		if err != nil {
			return nil, err
		}
		schema.Tables[name] = table
	}

	return schema, nil
}

// describeTable reads column metadata and the row count for one table.
func (s *Store) describeTable(ctx context.Context, name string) (domain.Table, error) {
	var table domain.Table

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
	if err != nil {
		return table, fmt.Errorf("describing table %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return table, fmt.Errorf("scanning column of %s: %w", name, err)
		}
		table.Columns = append(table.Columns, domain.Column{
			Name:    colName,
			Type:    colType,
			NotNull: notNull != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return table, fmt.Errorf("reading columns of %s: %w", name, err)
	}

	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&table.RowCount); err != nil {
		return table, fmt.Errorf("counting rows of %s: %w", name, err)
	}

	return table, nil
}

// SampleRows returns up to limit rows from the table, in storage order.
func (s *Store) SampleRows(ctx context.Context, table string, limit int) ([]domain.Row, error) {
	if !s.tableExists(ctx, table) {
		return nil, fmt.Errorf("%w: table %s", domain.ErrNotFound, table)
	}
	return s.Execute(ctx, fmt.Sprintf("SELECT * FROM %q LIMIT %d", table, limit))
}

// TableNames returns all table names sorted alphabetically.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table names: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// tableExists reports whether the named table is present.
func (s *Store) tableExists(ctx context.Context, table string) bool {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	return err == nil && n > 0
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases resources.
func (s *Store) Close() error {
	return s.db.Close()
}
