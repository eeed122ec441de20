package generator

import (
	"fmt"
	"strings"

	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
)

// Insert adds literal rows to a table.
type Insert struct {
	Table   string
	Columns []string
	Rows    []schema.Row
}

// Kind implements Operation.
func (i *Insert) Kind() Kind { return KindInsert }

// TableName implements Operation.
func (i *Insert) TableName() string { return i.Table }

// SQL renders a multi-row INSERT statement.
func (i *Insert) SQL() string {
	b := SQLBuilder{}
	b.Write(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", i.Table, strings.Join(i.Columns, ", ")))
	for n, row := range i.Rows {
		if n > 0 {
			b.Write(", ")
		}
		b.Write("(")
		for k, v := range row {
			if k > 0 {
				b.Write(", ")
			}
			b.WriteValue(v)
		}
		b.Write(")")
	}
	return b.String()
}

// Shadow appends the rows and reports them as inserted.
func (i *Insert) Shadow(state *schema.State) Result {
	tbl, ok := state.TableByName(i.Table)
	if !ok {
		return Result{}
	}
	out := make([]schema.Row, 0, len(i.Rows))
	for _, row := range i.Rows {
		tbl.Rows = append(tbl.Rows, row.Clone())
		out = append(out, row.Clone())
	}
	return Result{Rows: out, Affected: len(out)}
}

// Assignment is the SET clause of an UPDATE: either c = literal or c = c + delta.
type Assignment struct {
	Column    string
	Value     schema.Value
	Increment bool
}

func (a Assignment) build(b *SQLBuilder) {
	b.Write(a.Column)
	b.Write(" = ")
	if a.Increment {
		b.Write(a.Column)
		b.Write(" + ")
	}
	b.WriteValue(a.Value)
}

func (a Assignment) apply(old schema.Value) schema.Value {
	if !a.Increment {
		return a.Value.Clone()
	}
	if v, ok := schema.Add(old, a.Value); ok {
		return v
	}
	return old
}

// Update rewrites one column of the rows matching Where.
type Update struct {
	Table string
	Set   Assignment
	Where Expr
}

// Kind implements Operation.
func (u *Update) Kind() Kind { return KindUpdate }

// TableName implements Operation.
func (u *Update) TableName() string { return u.Table }

// SQL renders an UPDATE statement.
func (u *Update) SQL() string {
	b := SQLBuilder{}
	b.Write("UPDATE ")
	b.Write(u.Table)
	b.Write(" SET ")
	u.Set.build(&b)
	b.Write(" WHERE ")
	u.Where.Build(&b)
	return b.String()
}

// Shadow updates matching rows in place and returns their new images.
func (u *Update) Shadow(state *schema.State) Result {
	tbl, ok := state.TableByName(u.Table)
	if !ok {
		return Result{}
	}
	_, pos, ok := tbl.ColumnByName(u.Set.Column)
	if !ok {
		return Result{}
	}
	var out []schema.Row
	for i, row := range tbl.Rows {
		if !u.Where.Eval(tbl, row) {
			continue
		}
		tbl.Rows[i][pos] = u.Set.apply(row[pos])
		out = append(out, tbl.Rows[i].Clone())
	}
	return Result{Rows: out, Affected: len(out)}
}

// Delete removes the rows matching Where.
type Delete struct {
	Table string
	Where Expr
}

// Kind implements Operation.
func (d *Delete) Kind() Kind { return KindDelete }

// TableName implements Operation.
func (d *Delete) TableName() string { return d.Table }

// SQL renders a DELETE statement.
func (d *Delete) SQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", d.Table, ExprSQL(d.Where))
}

// Shadow drops matching rows and returns them.
func (d *Delete) Shadow(state *schema.State) Result {
	tbl, ok := state.TableByName(d.Table)
	if !ok {
		return Result{}
	}
	kept := tbl.Rows[:0]
	var removed []schema.Row
	for _, row := range tbl.Rows {
		if d.Where.Eval(tbl, row) {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}
	tbl.Rows = kept
	return Result{Rows: removed, Affected: len(removed)}
}

func (g *Generator) genInsert(r generation.Source) (Operation, bool) {
	if !g.State.HasTables() {
		return nil, false
	}
	tbl := *generation.Pick(r, g.State.Tables)
	cols := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		cols[i] = col.Name
	}
	n := generation.GenRange(r, 1, g.Config.MaxRowsPerInsert+1)
	rows := make([]schema.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, g.Rows.ArbitrarySizedFrom(r, tbl, g.Config.MaxTextLength))
	}
	return &Insert{Table: tbl.Name, Columns: cols, Rows: rows}, true
}

func (g *Generator) genUpdate(r generation.Source) (Operation, bool) {
	if !g.State.HasTables() {
		return nil, false
	}
	tbl := *generation.Pick(r, g.State.Tables)
	set, _ := generation.Backtrack(r, []generation.Choice[Assignment]{
		// Increment a numeric column; tables may have none.
		{Retries: g.Config.Backtrack.Retries, Gen: func(r generation.Source) (Assignment, bool) {
			numeric := tbl.ColumnsWhere(func(c schema.Column) bool { return c.Type.Numeric() })
			if len(numeric) == 0 {
				return Assignment{}, false
			}
			col := tbl.Columns[*generation.Pick(r, numeric)]
			delta := int64(generation.GenRange(r, 1, UpdateDeltaMax+1))
			v := schema.IntValue(delta)
			if col.Type == schema.TypeReal {
				v = schema.RealValue(float64(delta) / RealScale)
			}
			return Assignment{Column: col.Name, Value: v, Increment: true}, true
		}},
		{Retries: 1, Gen: generation.Always(func(r generation.Source) Assignment {
			col := *generation.Pick(r, tbl.Columns)
			return Assignment{Column: col.Name, Value: g.Values.ArbitrarySizedFrom(r, col.Type, g.Config.MaxTextLength)}
		})},
	})
	return &Update{Table: tbl.Name, Set: set, Where: g.Predicates.ArbitraryFrom(r, tbl)}, true
}

func (g *Generator) genDelete(r generation.Source) (Operation, bool) {
	populated := g.State.TablesWhere(func(t *schema.Table) bool { return len(t.Rows) > 0 })
	if len(populated) == 0 {
		return nil, false
	}
	tbl := *generation.Pick(r, populated)
	return &Delete{Table: tbl.Name, Where: g.Predicates.ArbitraryFrom(r, tbl)}, true
}
