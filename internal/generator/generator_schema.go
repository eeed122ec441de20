package generator

import (
	"fmt"
	"strings"

	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
)

// TableGen draws table definitions.
type TableGen struct {
	MaxColumns  int
	NameRetries int
}

// Arbitrary returns a table with up to MaxColumns columns.
func (g TableGen) Arbitrary(r generation.Source) schema.Table {
	return g.ArbitrarySized(r, max(g.MaxColumns, 1))
}

// ArbitrarySized returns a table with between one and size columns.
func (g TableGen) ArbitrarySized(r generation.Source, size int) schema.Table {
	count := generation.GenRange(r, 1, max(size, 1)+1)
	cols := make([]schema.Column, 0, count)
	for i := 0; i < count; i++ {
		name, ok := generation.Backtrack(r, []generation.Choice[string]{
			{Retries: max(g.NameRetries, 1), Gen: func(r generation.Source) (string, bool) {
				name := generation.RandomText(r)
				return name, !columnTaken(cols, name)
			}},
		})
		if !ok {
			name = fmt.Sprintf("c%d", i)
		}
		cols = append(cols, schema.Column{Name: name, Type: *generation.Pick(r, schema.ColumnTypes)})
	}
	return schema.Table{Name: generation.RandomText(r), Columns: cols}
}

// ArbitraryFromMaybe returns a table whose name is unused in state, or
// abstains when the drawn name collides.
func (g TableGen) ArbitraryFromMaybe(r generation.Source, state *schema.State) (schema.Table, bool) {
	tbl := g.Arbitrary(r)
	if state.NameInUse(tbl.Name) {
		return schema.Table{}, false
	}
	return tbl, true
}

func columnTaken(cols []schema.Column, name string) bool {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// CreateTable defines a new empty table.
type CreateTable struct {
	Table schema.Table
}

// Kind implements Operation.
func (c *CreateTable) Kind() Kind { return KindCreateTable }

// TableName implements Operation.
func (c *CreateTable) TableName() string { return c.Table.Name }

// SQL renders a CREATE TABLE statement.
func (c *CreateTable) SQL() string {
	parts := make([]string, 0, len(c.Table.Columns))
	for _, col := range c.Table.Columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name, col.Type.SQLType()))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", c.Table.Name, strings.Join(parts, ", "))
}

// Shadow registers the table with no rows.
func (c *CreateTable) Shadow(state *schema.State) Result {
	tbl := c.Table.Clone()
	tbl.Rows = nil
	state.AddTable(tbl)
	return Result{}
}

// CreateIndex adds a secondary index. It has no visible effect on results.
type CreateIndex struct {
	Name    string
	Table   string
	Columns []string
}

// Kind implements Operation.
func (c *CreateIndex) Kind() Kind { return KindCreateIndex }

// TableName implements Operation.
func (c *CreateIndex) TableName() string { return c.Table }

// SQL renders a CREATE INDEX statement.
func (c *CreateIndex) SQL() string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", c.Name, c.Table, strings.Join(c.Columns, ", "))
}

// Shadow records the index on its table.
func (c *CreateIndex) Shadow(state *schema.State) Result {
	if tbl, ok := state.TableByName(c.Table); ok {
		tbl.Indexes = append(tbl.Indexes, schema.Index{Name: c.Name, Columns: append([]string(nil), c.Columns...)})
	}
	return Result{}
}

// DropTable removes a table and its indexes.
type DropTable struct {
	Table string
}

// Kind implements Operation.
func (d *DropTable) Kind() Kind { return KindDropTable }

// TableName implements Operation.
func (d *DropTable) TableName() string { return d.Table }

// SQL renders a DROP TABLE statement.
func (d *DropTable) SQL() string {
	return fmt.Sprintf("DROP TABLE %s", d.Table)
}

// Shadow forgets the table.
func (d *DropTable) Shadow(state *schema.State) Result {
	state.DropTable(d.Table)
	return Result{}
}

func (g *Generator) genCreateTable(r generation.Source) (Operation, bool) {
	if len(g.State.Tables) >= g.Config.MaxTables {
		return nil, false
	}
	tbl, ok := generation.Backtrack(r, []generation.Choice[schema.Table]{
		{Retries: g.Config.Backtrack.NameRetries, Gen: generation.LiftMaybe[*schema.State, schema.Table](g.Tables, g.State)},
	})
	if !ok {
		return nil, false
	}
	return &CreateTable{Table: tbl}, true
}

func (g *Generator) genCreateIndex(r generation.Source) (Operation, bool) {
	if !g.State.HasTables() {
		return nil, false
	}
	tbl := *generation.Pick(r, g.State.Tables)
	n := generation.GenRange(r, 1, min(IndexColsMax, len(tbl.Columns))+1)
	positions := generation.PickNUnique(r, 0, len(tbl.Columns), n)
	cols := make([]string, len(positions))
	for i, p := range positions {
		cols[i] = tbl.Columns[p].Name
	}
	return &CreateIndex{Name: g.NextIndexName(), Table: tbl.Name, Columns: cols}, true
}

func (g *Generator) genDropTable(r generation.Source) (Operation, bool) {
	if !g.State.HasTables() {
		return nil, false
	}
	tbl := *generation.Pick(r, g.State.Tables)
	return &DropTable{Table: tbl.Name}, true
}
