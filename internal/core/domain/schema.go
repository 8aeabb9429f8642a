package domain

// Column describes a single column of a warehouse table.
type Column struct {
	// Name is the column name.
	Name string `json:"name"`

	// Type is the declared SQL type.
	Type string `json:"type"`

	// NotNull reports whether the column carries a NOT NULL constraint.
	NotNull bool `json:"not_null"`
}

// Table describes a single warehouse table.
type Table struct {
	// Columns in declaration order.
	Columns []Column `json:"columns"`

	// RowCount is the number of rows at snapshot time.
	RowCount int `json:"row_count"`
}

// Schema is a read-only snapshot of the relational warehouse.
// It is regenerated on demand and never mutated in place.
type Schema struct {
	// Tables maps table name to its description.
	Tables map[string]Table `json:"tables"`
}

// TableNames returns the table names in the snapshot.
// Order is unspecified; callers needing stable order must sort.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	return names
}

// Row is a single result row keyed by column name.
type Row map[string]any

// SchemaReport is the boundary view of the warehouse: the schema
// snapshot plus a few sample rows per table.
type SchemaReport struct {
	// Schema is the table/column snapshot.
	Schema Schema `json:"schema"`

	// SampleData maps table name to its first rows, in table order.
	SampleData map[string][]Row `json:"sample_data"`
}
