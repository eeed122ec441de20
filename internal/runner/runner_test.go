package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/generator"
	"sqlsim/internal/schema"
)

func newTestRunner(t *testing.T, seed int64, steps int) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = seed
	cfg.Steps = steps
	cfg.MaxTextLength = 48
	cfg.ValidateSQL = true
	cfg.Report.OutputDir = t.TempDir()
	cfg.Report.Archive = false
	cfg.Logging.ReportIntervalSteps = 0
	exec, err := db.Open(config.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = exec.Close() })
	return New(cfg, exec, nil)
}

func TestShadowMatchesSQLite(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2024, 99991} {
		r := newTestRunner(t, seed, 400)
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		steps, _, mismatches, kinds := r.Stats()
		if mismatches != 0 {
			t.Fatalf("seed %d: %d mismatches", seed, mismatches)
		}
		if steps == 0 || kinds[generator.KindInsert] == 0 || kinds[generator.KindSelect] == 0 {
			t.Fatalf("seed %d: unexpected workload %d %v", seed, steps, kinds)
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	a := newTestRunner(t, 31337, 200)
	b := newTestRunner(t, 31337, 200)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run a: %v", err)
	}
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("run b: %v", err)
	}
	if len(a.opLog) != len(b.opLog) {
		t.Fatalf("logs differ in length: %d vs %d", len(a.opLog), len(b.opLog))
	}
	for i := range a.opLog {
		if a.opLog[i] != b.opLog[i] {
			t.Fatalf("statement %d differs:\n%s\n%s", i, a.opLog[i], b.opLog[i])
		}
	}
}

func TestMismatchIsReported(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, 5, 0)
	r.cfg.Weights.Actions = config.ActionWeights{CreateTable: 1, Insert: 4}
	r.gen.Config.Weights.Actions = r.cfg.Weights.Actions
	var tbl *schema.Table
	for step := 0; step < 50 && tbl == nil; step++ {
		if err := r.Step(ctx, step); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		for _, candidate := range r.state.Tables {
			if len(candidate.Rows) > 0 {
				tbl = candidate
				break
			}
		}
	}
	if tbl == nil {
		t.Fatalf("no populated table after 50 steps")
	}
	// Corrupt the model: the engine never saw this row.
	tbl.Rows = append(tbl.Rows, tbl.Rows[0].Clone())
	r.cfg.Weights.Actions = config.ActionWeights{Insert: 1}
	r.gen.Config.Weights.Actions = r.cfg.Weights.Actions
	var mismatch *MismatchError
	for step := 50; step < 100; step++ {
		err := r.Step(ctx, step)
		if err == nil {
			continue
		}
		if !errors.As(err, &mismatch) {
			t.Fatalf("unexpected error type: %v", err)
		}
		break
	}
	if mismatch == nil {
		t.Fatalf("corrupted shadow model went unnoticed")
	}
	if mismatch.Reason != "table_contents" || mismatch.Kind != generator.KindInsert {
		t.Fatalf("unexpected mismatch: %v", mismatch)
	}
	if len(mismatch.Expected) != len(mismatch.Actual)+1 {
		t.Fatalf("expected one extra shadow row: %d vs %d", len(mismatch.Expected), len(mismatch.Actual))
	}
	for _, name := range []string{"summary.json", "plan.sql", "schema.sql", "expected.tsv", "actual.tsv"} {
		if _, err := os.Stat(filepath.Join(mismatch.CaseDir, name)); err != nil {
			t.Fatalf("case file %s missing: %v", name, err)
		}
	}
}

func TestEngineErrorIsMismatch(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, 3, 0)
	op := &generator.Select{
		Table:   "missing",
		Star:    true,
		Columns: []string{"a"},
		Types:   []schema.ColumnType{schema.TypeInteger},
		Where:   generator.BoolExpr{Value: true},
	}
	m := r.check(ctx, 0, op, generator.Result{})
	if m == nil || m.Err == nil {
		t.Fatalf("expected engine error mismatch, got %v", m)
	}
	if m.Reason != "sqlite_error_1" {
		t.Fatalf("unexpected reason %s", m.Reason)
	}
	if !errors.Is(m, m.Err) {
		t.Fatalf("mismatch must unwrap to the engine error")
	}
}
