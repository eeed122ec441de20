package generator

import (
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Select reads a projection of one table.
type Select struct {
	Table    string
	Star     bool
	Columns  []string
	Types    []schema.ColumnType
	Distinct bool
	Where    Expr
}

// Kind implements Operation.
func (s *Select) Kind() Kind { return KindSelect }

// TableName implements Operation.
func (s *Select) TableName() string { return s.Table }

// ResultTypes implements Query.
func (s *Select) ResultTypes() []schema.ColumnType { return s.Types }

// SQL renders the SELECT statement.
func (s *Select) SQL() string {
	b := SQLBuilder{}
	b.Write("SELECT ")
	if s.Distinct {
		b.Write("DISTINCT ")
	}
	if s.Star {
		b.Write("*")
	} else {
		b.WriteList(s.Columns)
	}
	b.Write(" FROM ")
	b.Write(s.Table)
	b.Write(" WHERE ")
	s.Where.Build(&b)
	return b.String()
}

// Shadow returns the projected matching rows without changing state.
// Row order is not significant.
func (s *Select) Shadow(state *schema.State) Result {
	tbl, ok := state.TableByName(s.Table)
	if !ok {
		return Result{}
	}
	positions := make([]int, 0, len(s.Columns))
	for _, name := range s.Columns {
		if _, pos, ok := tbl.ColumnByName(name); ok {
			positions = append(positions, pos)
		}
	}
	seen := make(map[string]struct{})
	var out []schema.Row
	for _, row := range tbl.Rows {
		if !s.Where.Eval(tbl, row) {
			continue
		}
		projected := row.Project(positions).Clone()
		if s.Distinct {
			key := projected.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, projected)
	}
	return Result{Rows: out}
}

func (g *Generator) genSelect(r generation.Source) (Operation, bool) {
	if !g.State.HasTables() {
		return nil, false
	}
	tbl := *generation.Pick(r, g.State.Tables)
	sel := &Select{Table: tbl.Name}
	var positions []int
	if util.Chance(r, SelectStarProb) {
		sel.Star = true
		positions = make([]int, len(tbl.Columns))
		for i := range positions {
			positions[i] = i
		}
	} else {
		n := generation.GenRange(r, 1, len(tbl.Columns)+1)
		positions = generation.PickNUnique(r, 0, len(tbl.Columns), n)
	}
	for _, p := range positions {
		sel.Columns = append(sel.Columns, tbl.Columns[p].Name)
		sel.Types = append(sel.Types, tbl.Columns[p].Type)
	}
	sel.Distinct = util.Chance(r, SelectDistinctProb)
	// Prefer a predicate known to match a stored row; fall back to any predicate.
	sel.Where, _ = generation.Backtrack(r, []generation.Choice[Expr]{
		{Retries: g.Config.Backtrack.Retries, Gen: generation.LiftMaybe[*schema.Table, Expr](g.Predicates, tbl)},
		{Retries: 1, Gen: generation.Always(generation.Lift[*schema.Table, Expr](g.Predicates, tbl))},
	})
	return sel, true
}
