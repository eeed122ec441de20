package generator

import (
	"testing"

	"sqlsim/internal/config"
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
	"sqlsim/internal/validator"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.MaxTextLength = 32
	return cfg
}

func drive(t *testing.T, gen *Generator, steps int) []Operation {
	t.Helper()
	ops := make([]Operation, 0, steps)
	for i := 0; i < steps; i++ {
		op, ok := gen.Next()
		if !ok {
			t.Fatalf("step %d: generator exhausted", i)
		}
		op.Shadow(gen.State)
		ops = append(ops, op)
	}
	return ops
}

func TestNextDeterministicForSeed(t *testing.T) {
	a := drive(t, New(testConfig(), schema.NewState(), 1234), 300)
	b := drive(t, New(testConfig(), schema.NewState(), 1234), 300)
	for i := range a {
		if a[i].SQL() != b[i].SQL() {
			t.Fatalf("step %d diverged:\n%s\n%s", i, a[i].SQL(), b[i].SQL())
		}
	}
	c := drive(t, New(testConfig(), schema.NewState(), 4321), 300)
	same := true
	for i := range a {
		if a[i].SQL() != c[i].SQL() {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical workloads")
	}
}

func TestGeneratedSQLParses(t *testing.T) {
	v := validator.New()
	gen := New(testConfig(), schema.NewState(), 77)
	kinds := map[Kind]int{}
	for _, op := range drive(t, gen, 500) {
		if err := v.Validate(op.SQL()); err != nil {
			t.Fatalf("%s does not parse: %v", op.SQL(), err)
		}
		kinds[op.Kind()]++
	}
	for _, k := range []Kind{KindCreateTable, KindInsert, KindUpdate, KindDelete, KindSelect} {
		if kinds[k] == 0 {
			t.Fatalf("no %s generated in 500 steps: %v", k, kinds)
		}
	}
}

func TestNextRespectsZeroWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Weights.Actions = config.ActionWeights{CreateTable: 1, Insert: 3}
	gen := New(cfg, schema.NewState(), 5)
	for _, op := range drive(t, gen, 100) {
		if op.Kind() != KindCreateTable && op.Kind() != KindInsert {
			t.Fatalf("unexpected kind %s", op.Kind())
		}
	}
}

func TestNextExhaustsOnEmptyState(t *testing.T) {
	cfg := testConfig()
	cfg.Weights.Actions = config.ActionWeights{Update: 1, Select: 1}
	gen := New(cfg, schema.NewState(), 9)
	if _, ok := gen.Next(); ok {
		t.Fatalf("nothing can be generated without tables")
	}
	stats := gen.Stats()
	if stats.Exhausted != 1 {
		t.Fatalf("expected one exhaustion, got %d", stats.Exhausted)
	}
	if stats.Abstained[KindUpdate]+stats.Abstained[KindSelect] == 0 {
		t.Fatalf("expected abstentions to be counted: %+v", stats)
	}
}

func TestCreateTableStopsAtMaxTables(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTables = 2
	cfg.Weights.Actions = config.ActionWeights{CreateTable: 1, Select: 1}
	gen := New(cfg, schema.NewState(), 3)
	drive(t, gen, 50)
	if n := len(gen.State.Tables); n > 2 {
		t.Fatalf("expected at most 2 tables, got %d", n)
	}
}

func TestTableNamesAndColumnsUnique(t *testing.T) {
	gen := New(testConfig(), schema.NewState(), 11)
	for i := 0; i < 200; i++ {
		tbl := gen.Tables.Arbitrary(gen.Rand)
		if len(tbl.Columns) == 0 || len(tbl.Columns) > gen.Tables.MaxColumns {
			t.Fatalf("unexpected column count %d", len(tbl.Columns))
		}
		for j, col := range tbl.Columns {
			if columnTaken(tbl.Columns[:j], col.Name) {
				t.Fatalf("duplicate column %s in %+v", col.Name, tbl.Columns)
			}
		}
	}
}

func TestSatisfyingPredicateMatchesARow(t *testing.T) {
	gen := New(testConfig(), schema.NewState(), 21)
	tbl := &schema.Table{Name: "t", Columns: []schema.Column{
		{Name: "a", Type: schema.TypeInteger},
		{Name: "b", Type: schema.TypeReal},
		{Name: "c", Type: schema.TypeText},
		{Name: "d", Type: schema.TypeBlob},
	}}
	for i := 0; i < 5; i++ {
		tbl.Rows = append(tbl.Rows, gen.Rows.ArbitrarySizedFrom(gen.Rand, tbl, 16))
	}
	for i := 0; i < 300; i++ {
		expr, ok := gen.Predicates.ArbitraryFromMaybe(gen.Rand, tbl)
		if !ok {
			t.Fatalf("populated table must yield a predicate")
		}
		matched := false
		for _, row := range tbl.Rows {
			if expr.Eval(tbl, row) {
				matched = true
				break
			}
		}
		if !matched {
			t.Fatalf("predicate %s matches no row", ExprSQL(expr))
		}
	}
	if _, ok := gen.Predicates.ArbitraryFromMaybe(gen.Rand, &schema.Table{Name: "e", Columns: tbl.Columns}); ok {
		t.Fatalf("empty table must abstain")
	}
}

func TestPredicateReferencesOwnColumns(t *testing.T) {
	r := generation.New(4)
	tbl := &schema.Table{Name: "t", Columns: []schema.Column{{Name: "x", Type: schema.TypeInteger}, {Name: "y", Type: schema.TypeText}}}
	p := PredicateGen{Depth: 3}
	for i := 0; i < 200; i++ {
		for _, name := range p.ArbitraryFrom(r, tbl).Columns() {
			if _, _, ok := tbl.ColumnByName(name); !ok {
				t.Fatalf("predicate references unknown column %s", name)
			}
		}
	}
}

func TestIndexNamesSkipUsedNames(t *testing.T) {
	state := schema.NewState()
	state.AddTable(&schema.Table{Name: "idx_0"})
	gen := New(testConfig(), state, 1)
	if name := gen.NextIndexName(); name != "idx_1" {
		t.Fatalf("unexpected index name %s", name)
	}
	if name := gen.NextIndexName(); name != "idx_2" {
		t.Fatalf("unexpected index name %s", name)
	}
}

func TestDeleteTargetsPopulatedTables(t *testing.T) {
	state := schema.NewState()
	state.AddTable(&schema.Table{Name: "bare_fox", Columns: []schema.Column{{Name: "a", Type: schema.TypeInteger}}})
	gen := New(testConfig(), state, 9)
	if _, ok := gen.genDelete(gen.Rand); ok {
		t.Fatalf("delete generated with no rows anywhere")
	}
	state.AddTable(&schema.Table{
		Name:    "full_owl",
		Columns: []schema.Column{{Name: "a", Type: schema.TypeInteger}},
		Rows:    []schema.Row{{schema.IntValue(1)}},
	})
	for i := 0; i < 50; i++ {
		op, ok := gen.genDelete(gen.Rand)
		if !ok {
			t.Fatalf("delete abstained with a populated table")
		}
		if op.TableName() != "full_owl" {
			t.Fatalf("delete targeted empty table %s", op.TableName())
		}
	}
}

func TestUpdateIncrementsOnlyNumericColumns(t *testing.T) {
	state := schema.NewState()
	state.AddTable(&schema.Table{
		Name: "mixed_elk",
		Columns: []schema.Column{
			{Name: "label", Type: schema.TypeText},
			{Name: "n", Type: schema.TypeInteger},
			{Name: "data", Type: schema.TypeBlob},
		},
	})
	gen := New(testConfig(), state, 13)
	increments := 0
	for i := 0; i < 200; i++ {
		op, ok := gen.genUpdate(gen.Rand)
		if !ok {
			t.Fatalf("update abstained")
		}
		set := op.(*Update).Set
		if !set.Increment {
			continue
		}
		increments++
		if set.Column != "n" {
			t.Fatalf("increment on non-numeric column %s", set.Column)
		}
	}
	if increments == 0 {
		t.Fatalf("no increments generated")
	}
}
