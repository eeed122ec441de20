package generator

import (
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// PredicateGen draws WHERE clauses over a single table.
type PredicateGen struct {
	Values ValueGen
	Depth  int
}

// ArbitraryFrom builds a predicate referencing only tbl's columns.
func (p PredicateGen) ArbitraryFrom(r generation.Source, tbl *schema.Table) Expr {
	return p.ArbitrarySizedFrom(r, tbl, p.Depth)
}

// ArbitrarySizedFrom builds a predicate nested at most depth levels deep.
func (p PredicateGen) ArbitrarySizedFrom(r generation.Source, tbl *schema.Table, depth int) Expr {
	if len(tbl.Columns) == 0 {
		return BoolExpr{Value: true}
	}
	if depth <= 0 {
		return p.leaf(r, tbl)
	}
	sub := func(r generation.Source) Expr { return p.ArbitrarySizedFrom(r, tbl, depth-1) }
	return generation.Frequency(r, []generation.Weighted[int, Expr]{
		{Weight: 5, Gen: func(r generation.Source) Expr { return p.leaf(r, tbl) }},
		{Weight: 2, Gen: func(r generation.Source) Expr { return AndExpr{Left: sub(r), Right: sub(r)} }},
		{Weight: 2, Gen: func(r generation.Source) Expr { return OrExpr{Left: sub(r), Right: sub(r)} }},
		{Weight: 1, Gen: func(r generation.Source) Expr { return NotExpr{Expr: sub(r)} }},
		{Weight: 1, Gen: func(r generation.Source) Expr { return BoolExpr{Value: generation.GenRatio(r, 1, 2)} }},
	})
}

// ArbitraryFromMaybe builds a predicate that holds for at least one existing
// row of tbl. It abstains when the table is empty.
func (p PredicateGen) ArbitraryFromMaybe(r generation.Source, tbl *schema.Table) (Expr, bool) {
	if len(tbl.Rows) == 0 || len(tbl.Columns) == 0 {
		return nil, false
	}
	row := *generation.Pick(r, tbl.Rows)
	expr := p.satisfying(r, tbl, row)
	if util.Chance(r, PredicateWidenProb) {
		if generation.GenRatio(r, 1, 2) {
			expr = OrExpr{Left: expr, Right: p.ArbitraryFrom(r, tbl)}
		} else {
			expr = AndExpr{Left: expr, Right: p.satisfying(r, tbl, row)}
		}
	}
	return expr, true
}

func (p PredicateGen) leaf(r generation.Source, tbl *schema.Table) Expr {
	return generation.OneOf(r, []func(generation.Source) Expr{
		func(r generation.Source) Expr {
			pos := generation.PickIndex(r, len(tbl.Columns))
			return CompareExpr{
				Column: tbl.Columns[pos].Name,
				Op:     *generation.Pick(r, CompareOps),
				Value:  p.operand(r, tbl, pos),
			}
		},
		func(r generation.Source) Expr {
			pos := generation.PickIndex(r, len(tbl.Columns))
			n := generation.GenRange(r, 1, InListMax+1)
			list := make([]schema.Value, 0, n)
			for i := 0; i < n; i++ {
				list = append(list, p.operand(r, tbl, pos))
			}
			return InExpr{Column: tbl.Columns[pos].Name, List: list}
		},
	})
}

// operand returns a literal for column pos, reusing stored values half of the
// time so comparisons are not almost always false.
func (p PredicateGen) operand(r generation.Source, tbl *schema.Table, pos int) schema.Value {
	if len(tbl.Rows) > 0 && util.Chance(r, ExistingValueProb) {
		row := *generation.Pick(r, tbl.Rows)
		return row[pos]
	}
	return p.Values.ArbitraryFrom(r, tbl.Columns[pos].Type)
}

// satisfying returns a single-column comparison that row satisfies.
func (p PredicateGen) satisfying(r generation.Source, tbl *schema.Table, row schema.Row) Expr {
	pos := generation.PickIndex(r, len(tbl.Columns))
	col := tbl.Columns[pos]
	v := row[pos]
	gens := []func(generation.Source) Expr{
		func(generation.Source) Expr { return CompareExpr{Column: col.Name, Op: OpEq, Value: v} },
		func(generation.Source) Expr { return CompareExpr{Column: col.Name, Op: OpLe, Value: v} },
		func(generation.Source) Expr { return CompareExpr{Column: col.Name, Op: OpGe, Value: v} },
		func(r generation.Source) Expr {
			list := []schema.Value{v}
			for i := generation.GenRange(r, 0, InListMax); i > 0; i-- {
				list = append(list, p.Values.ArbitraryFrom(r, col.Type))
			}
			r.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
			return InExpr{Column: col.Name, List: list}
		},
	}
	if col.Type.Numeric() {
		gens = append(gens,
			func(generation.Source) Expr { return CompareExpr{Column: col.Name, Op: OpLt, Value: nudge(v, 1)} },
			func(generation.Source) Expr { return CompareExpr{Column: col.Name, Op: OpGt, Value: nudge(v, -1)} },
		)
	}
	return generation.OneOf(r, gens)
}

// nudge shifts a numeric value by delta units.
func nudge(v schema.Value, delta int) schema.Value {
	if v.Type == schema.TypeReal {
		return schema.RealValue(v.Real + float64(delta))
	}
	return schema.IntValue(v.Int + int64(delta))
}
