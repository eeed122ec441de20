package generator

import (
	"testing"

	"sqlsim/internal/schema"
)

func shadowState() *schema.State {
	state := schema.NewState()
	state.AddTable(&schema.Table{
		Name: "t",
		Columns: []schema.Column{
			{Name: "a", Type: schema.TypeInteger},
			{Name: "b", Type: schema.TypeText},
			{Name: "c", Type: schema.TypeReal},
		},
	})
	return state
}

func TestInsertShadowAppendsRows(t *testing.T) {
	state := shadowState()
	ins := &Insert{
		Table:   "t",
		Columns: []string{"a", "b", "c"},
		Rows: []schema.Row{
			{schema.IntValue(1), schema.TextValue("x"), schema.RealValue(0.5)},
			{schema.IntValue(2), schema.TextValue("it's"), schema.RealValue(-3)},
		},
	}
	want := "INSERT INTO t (a, b, c) VALUES (1, 'x', 0.5), (2, 'it''s', -3.0)"
	if got := ins.SQL(); got != want {
		t.Fatalf("unexpected sql: %s", got)
	}
	res := ins.Shadow(state)
	if res.Affected != 2 || len(res.Rows) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	tbl, _ := state.TableByName("t")
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(tbl.Rows))
	}
	ins.Rows[0][0] = schema.IntValue(100)
	if tbl.Rows[0][0].Int != 1 {
		t.Fatalf("stored rows alias the operation")
	}
}

func TestUpdateShadowIncrementsMatches(t *testing.T) {
	state := shadowState()
	(&Insert{Table: "t", Columns: []string{"a", "b", "c"}, Rows: []schema.Row{
		{schema.IntValue(1), schema.TextValue("x"), schema.RealValue(0)},
		{schema.IntValue(5), schema.TextValue("y"), schema.RealValue(0)},
		{schema.IntValue(9), schema.TextValue("z"), schema.RealValue(0)},
	}}).Shadow(state)
	upd := &Update{
		Table: "t",
		Set:   Assignment{Column: "a", Value: schema.IntValue(3), Increment: true},
		Where: CompareExpr{Column: "a", Op: OpGe, Value: schema.IntValue(5)},
	}
	if got := upd.SQL(); got != "UPDATE t SET a = a + 3 WHERE a >= 5" {
		t.Fatalf("unexpected sql: %s", got)
	}
	res := upd.Shadow(state)
	if res.Affected != 2 {
		t.Fatalf("expected 2 affected rows, got %d", res.Affected)
	}
	tbl, _ := state.TableByName("t")
	got := []int64{tbl.Rows[0][0].Int, tbl.Rows[1][0].Int, tbl.Rows[2][0].Int}
	if got[0] != 1 || got[1] != 8 || got[2] != 12 {
		t.Fatalf("unexpected values after update: %v", got)
	}
	if res.Rows[0][0].Int != 8 {
		t.Fatalf("update must return post-images, got %v", res.Rows[0])
	}
}

func TestUpdateShadowSetLiteral(t *testing.T) {
	state := shadowState()
	(&Insert{Table: "t", Columns: []string{"a", "b", "c"}, Rows: []schema.Row{
		{schema.IntValue(1), schema.TextValue("x"), schema.RealValue(0)},
	}}).Shadow(state)
	upd := &Update{
		Table: "t",
		Set:   Assignment{Column: "b", Value: schema.TextValue("q")},
		Where: BoolExpr{Value: true},
	}
	if got := upd.SQL(); got != "UPDATE t SET b = 'q' WHERE 1 = 1" {
		t.Fatalf("unexpected sql: %s", got)
	}
	if res := upd.Shadow(state); res.Affected != 1 || res.Rows[0][1].Text != "q" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDeleteShadowRemovesMatches(t *testing.T) {
	state := shadowState()
	(&Insert{Table: "t", Columns: []string{"a", "b", "c"}, Rows: []schema.Row{
		{schema.IntValue(1), schema.TextValue("x"), schema.RealValue(0)},
		{schema.IntValue(2), schema.TextValue("y"), schema.RealValue(0)},
		{schema.IntValue(3), schema.TextValue("x"), schema.RealValue(0)},
	}}).Shadow(state)
	del := &Delete{Table: "t", Where: InExpr{Column: "b", List: []schema.Value{schema.TextValue("x")}}}
	if got := del.SQL(); got != "DELETE FROM t WHERE b IN ('x')" {
		t.Fatalf("unexpected sql: %s", got)
	}
	res := del.Shadow(state)
	if res.Affected != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", res.Affected)
	}
	tbl, _ := state.TableByName("t")
	if len(tbl.Rows) != 1 || tbl.Rows[0][0].Int != 2 {
		t.Fatalf("unexpected remaining rows: %v", tbl.Rows)
	}
}

func TestSelectShadowProjectsAndDedupes(t *testing.T) {
	state := shadowState()
	(&Insert{Table: "t", Columns: []string{"a", "b", "c"}, Rows: []schema.Row{
		{schema.IntValue(1), schema.TextValue("x"), schema.RealValue(0)},
		{schema.IntValue(2), schema.TextValue("x"), schema.RealValue(0)},
		{schema.IntValue(3), schema.TextValue("y"), schema.RealValue(0)},
	}}).Shadow(state)
	sel := &Select{
		Table:    "t",
		Columns:  []string{"b"},
		Types:    []schema.ColumnType{schema.TypeText},
		Distinct: true,
		Where:    NotExpr{Expr: CompareExpr{Column: "a", Op: OpEq, Value: schema.IntValue(3)}},
	}
	if got := sel.SQL(); got != "SELECT DISTINCT b FROM t WHERE NOT (a = 3)" {
		t.Fatalf("unexpected sql: %s", got)
	}
	res := sel.Shadow(state)
	if len(res.Rows) != 1 || res.Rows[0][0].Text != "x" {
		t.Fatalf("unexpected rows: %v", res.Rows)
	}
	if state.RowCount() != 3 {
		t.Fatalf("select must not modify state")
	}
}

func TestSchemaOperationsShadow(t *testing.T) {
	state := schema.NewState()
	ct := &CreateTable{Table: schema.Table{Name: "u", Columns: []schema.Column{{Name: "k", Type: schema.TypeBlob}}}}
	if got := ct.SQL(); got != "CREATE TABLE u (k BLOB)" {
		t.Fatalf("unexpected sql: %s", got)
	}
	ct.Shadow(state)
	ci := &CreateIndex{Name: "idx_0", Table: "u", Columns: []string{"k"}}
	if got := ci.SQL(); got != "CREATE INDEX idx_0 ON u (k)" {
		t.Fatalf("unexpected sql: %s", got)
	}
	ci.Shadow(state)
	if !state.NameInUse("idx_0") {
		t.Fatalf("index not recorded")
	}
	(&DropTable{Table: "u"}).Shadow(state)
	if state.HasTables() || state.NameInUse("idx_0") {
		t.Fatalf("drop must remove the table and its indexes")
	}
}
