package generator

import "sqlsim/internal/schema"

// Expr is a boolean row predicate. Build renders it as SQL; Eval answers it
// against a shadow row the way the engine should.
type Expr interface {
	Build(b *SQLBuilder)
	Eval(tbl *schema.Table, row schema.Row) bool
	Columns() []string
}

// CompareOp is a binary comparison operator.
type CompareOp string

// Comparison operators.
const (
	OpEq CompareOp = "="
	OpNe CompareOp = "<>"
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// CompareOps lists every comparison operator.
var CompareOps = []CompareOp{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe}

func (op CompareOp) holds(cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	}
	return false
}

// BoolExpr is a constant predicate.
type BoolExpr struct {
	Value bool
}

// Build emits a constant comparison both dialects accept.
func (e BoolExpr) Build(b *SQLBuilder) {
	if e.Value {
		b.Write("1 = 1")
		return
	}
	b.Write("1 = 0")
}

// Eval returns the constant.
func (e BoolExpr) Eval(*schema.Table, schema.Row) bool { return e.Value }

// Columns reports the column references used.
func (e BoolExpr) Columns() []string { return nil }

// CompareExpr compares a column with a literal of the column's type.
type CompareExpr struct {
	Column string
	Op     CompareOp
	Value  schema.Value
}

// Build emits the comparison.
func (e CompareExpr) Build(b *SQLBuilder) {
	b.Write(e.Column)
	b.Write(" ")
	b.Write(string(e.Op))
	b.Write(" ")
	b.WriteValue(e.Value)
}

// Eval compares the row's cell with the literal.
func (e CompareExpr) Eval(tbl *schema.Table, row schema.Row) bool {
	_, pos, ok := tbl.ColumnByName(e.Column)
	if !ok {
		return false
	}
	cmp, ok := schema.Compare(row[pos], e.Value)
	return ok && e.Op.holds(cmp)
}

// Columns reports the column references used.
func (e CompareExpr) Columns() []string { return []string{e.Column} }

// InExpr tests membership of a column in a literal list.
type InExpr struct {
	Column string
	List   []schema.Value
}

// Build emits the IN list.
func (e InExpr) Build(b *SQLBuilder) {
	b.Write(e.Column)
	b.Write(" IN (")
	for i, v := range e.List {
		if i > 0 {
			b.Write(", ")
		}
		b.WriteValue(v)
	}
	b.Write(")")
}

// Eval reports whether the cell equals any list item.
func (e InExpr) Eval(tbl *schema.Table, row schema.Row) bool {
	_, pos, ok := tbl.ColumnByName(e.Column)
	if !ok {
		return false
	}
	for _, v := range e.List {
		if cmp, ok := schema.Compare(row[pos], v); ok && cmp == 0 {
			return true
		}
	}
	return false
}

// Columns reports the column references used.
func (e InExpr) Columns() []string { return []string{e.Column} }

// AndExpr is a conjunction.
type AndExpr struct {
	Left, Right Expr
}

// Build emits the parenthesized conjunction.
func (e AndExpr) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" AND ")
	e.Right.Build(b)
	b.Write(")")
}

// Eval evaluates both sides.
func (e AndExpr) Eval(tbl *schema.Table, row schema.Row) bool {
	return e.Left.Eval(tbl, row) && e.Right.Eval(tbl, row)
}

// Columns reports the column references used.
func (e AndExpr) Columns() []string { return append(e.Left.Columns(), e.Right.Columns()...) }

// OrExpr is a disjunction.
type OrExpr struct {
	Left, Right Expr
}

// Build emits the parenthesized disjunction.
func (e OrExpr) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" OR ")
	e.Right.Build(b)
	b.Write(")")
}

// Eval evaluates both sides.
func (e OrExpr) Eval(tbl *schema.Table, row schema.Row) bool {
	return e.Left.Eval(tbl, row) || e.Right.Eval(tbl, row)
}

// Columns reports the column references used.
func (e OrExpr) Columns() []string { return append(e.Left.Columns(), e.Right.Columns()...) }

// NotExpr negates a predicate. Generated values are never NULL, so two-valued
// logic is exact here.
type NotExpr struct {
	Expr Expr
}

// Build emits NOT (expr).
func (e NotExpr) Build(b *SQLBuilder) {
	b.Write("NOT (")
	e.Expr.Build(b)
	b.Write(")")
}

// Eval negates the inner predicate.
func (e NotExpr) Eval(tbl *schema.Table, row schema.Row) bool {
	return !e.Expr.Eval(tbl, row)
}

// Columns reports the column references used.
func (e NotExpr) Columns() []string { return e.Expr.Columns() }

// ExprSQL renders an expression on its own.
func ExprSQL(e Expr) string {
	if e == nil {
		return ""
	}
	b := SQLBuilder{}
	e.Build(&b)
	return b.String()
}

