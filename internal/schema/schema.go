// Package schema is the shadow model: the expected tables, columns and rows a
// correct engine holds after the operations applied so far.
package schema

import "strings"

// ColumnType enumerates column data types.
type ColumnType int

// Column type constants for schema generation.
const (
	TypeInteger ColumnType = iota
	TypeReal
	TypeText
	TypeBlob
)

// ColumnTypes lists every column type in declaration order.
var ColumnTypes = []ColumnType{TypeInteger, TypeReal, TypeText, TypeBlob}

// SQLType returns the SQL type string for this column type.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	default:
		return "INTEGER"
	}
}

// String implements fmt.Stringer.
func (t ColumnType) String() string {
	return strings.ToLower(t.SQLType())
}

// Numeric reports whether arithmetic applies to the type.
func (t ColumnType) Numeric() bool {
	return t == TypeInteger || t == TypeReal
}

// Column describes a table column.
type Column struct {
	Name string
	Type ColumnType
}

// Index describes a (potentially multi-column) index.
type Index struct {
	Name    string
	Columns []string
}

// Row is one tuple, positionally aligned with its table's columns.
type Row []Value

// Table is the tracked state of one table.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
	Rows    []Row
}

// State tracks every table in creation order. Lookups go by name; the slice
// keeps iteration order fixed so that picks stay reproducible for a seed.
type State struct {
	Tables []*Table
}

// NewState returns an empty shadow model.
func NewState() *State {
	return &State{}
}

// TableByName returns a table by name if present. SQL identifiers compare
// case-insensitively.
func (s *State) TableByName(name string) (*Table, bool) {
	for _, tbl := range s.Tables {
		if strings.EqualFold(tbl.Name, name) {
			return tbl, true
		}
	}
	return nil, false
}

// HasTables reports whether any tables exist in the schema state.
func (s *State) HasTables() bool {
	return len(s.Tables) > 0
}

// AddTable appends tbl. It returns false when the name is taken.
func (s *State) AddTable(tbl *Table) bool {
	if _, ok := s.TableByName(tbl.Name); ok {
		return false
	}
	s.Tables = append(s.Tables, tbl)
	return true
}

// DropTable removes the named table, keeping the order of the rest.
func (s *State) DropTable(name string) bool {
	for i, tbl := range s.Tables {
		if strings.EqualFold(tbl.Name, name) {
			s.Tables = append(s.Tables[:i], s.Tables[i+1:]...)
			return true
		}
	}
	return false
}

// TablesWhere returns the tables satisfying keep, in creation order.
func (s *State) TablesWhere(keep func(*Table) bool) []*Table {
	out := make([]*Table, 0, len(s.Tables))
	for _, tbl := range s.Tables {
		if keep(tbl) {
			out = append(out, tbl)
		}
	}
	return out
}

// RowCount sums the rows of every table.
func (s *State) RowCount() int {
	total := 0
	for _, tbl := range s.Tables {
		total += len(tbl.Rows)
	}
	return total
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	out := &State{Tables: make([]*Table, 0, len(s.Tables))}
	for _, tbl := range s.Tables {
		out.Tables = append(out.Tables, tbl.Clone())
	}
	return out
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]Column(nil), t.Columns...),
		Indexes: make([]Index, 0, len(t.Indexes)),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, idx := range t.Indexes {
		out.Indexes = append(out.Indexes, Index{Name: idx.Name, Columns: append([]string(nil), idx.Columns...)})
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

// ColumnByName returns a column and its position if present.
func (t *Table) ColumnByName(name string) (Column, int, bool) {
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, i, true
		}
	}
	return Column{}, -1, false
}

// ColumnsWhere returns the positions of the columns satisfying keep.
func (t *Table) ColumnsWhere(keep func(Column) bool) []int {
	out := make([]int, 0, len(t.Columns))
	for i, col := range t.Columns {
		if keep(col) {
			out = append(out, i)
		}
	}
	return out
}

// HasIndex reports whether an index with the given name exists.
func (t *Table) HasIndex(name string) bool {
	for _, idx := range t.Indexes {
		if strings.EqualFold(idx.Name, name) {
			return true
		}
	}
	return false
}

// Clone copies the row. Values share immutable text but not blob bytes.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for i, v := range r {
		out[i] = v.Clone()
	}
	return out
}

// Project returns the values at the given positions.
func (r Row) Project(positions []int) Row {
	out := make(Row, len(positions))
	for i, p := range positions {
		out[i] = r[p]
	}
	return out
}

// String renders the row as a stable signature.
func (r Row) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NameInUse reports whether a table or index already uses name. Tables and
// indexes share one namespace in SQLite.
func (s *State) NameInUse(name string) bool {
	for _, tbl := range s.Tables {
		if strings.EqualFold(tbl.Name, name) || tbl.HasIndex(name) {
			return true
		}
	}
	return false
}
