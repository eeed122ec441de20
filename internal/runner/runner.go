package runner

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/generator"
	"sqlsim/internal/metrics"
	"sqlsim/internal/report"
	"sqlsim/internal/schema"
	"sqlsim/internal/uploader"
	"sqlsim/internal/util"
	"sqlsim/internal/validator"
)

// Runner drives one simulation: generate an operation, apply it to the
// shadow model, submit it to the engine, compare.
type Runner struct {
	cfg       config.Config
	exec      *db.DB
	gen       *generator.Generator
	state     *schema.State
	validator *validator.Validator
	reporter  *report.Reporter
	uploader  uploader.Uploader
	metrics   *metrics.Metrics
	opLog     []string

	statsMu    sync.Mutex
	stats      runStats
	lastReport runStats
}

// New constructs a Runner for the given config and DB. A nil m gets a
// private registry.
func New(cfg config.Config, exec *db.DB, m *metrics.Metrics) *Runner {
	state := schema.NewState()
	up, err := uploader.New(cfg.Storage)
	if err != nil {
		util.Warnf("uploader disabled: %v", err)
		up = uploader.NoopUploader{}
	}
	if m == nil {
		m = metrics.New()
	}
	reporter := report.New(cfg.Report.OutputDir, cfg.Report.MaxDumpRows)
	reporter.UseUUIDPath = cfg.Report.UseUUIDPath
	return &Runner{
		cfg:       cfg,
		exec:      exec,
		gen:       generator.New(cfg, state, cfg.Seed),
		state:     state,
		validator: validator.New(),
		reporter:  reporter,
		uploader:  up,
		metrics:   m,
		stats:     newRunStats(),
	}
}

// State exposes the shadow model.
func (r *Runner) State() *schema.State {
	return r.state
}

// Run executes cfg.Steps steps. It returns the first *MismatchError when
// StopOnMismatch is set; otherwise mismatches are reported and counted and
// the run continues.
func (r *Runner) Run(ctx context.Context) error {
	util.Infof("runner start driver=%s seed=%d steps=%d", r.cfg.Driver, r.cfg.Seed, r.cfg.Steps)
	if err := r.exec.DropAll(ctx); err != nil {
		return errors.Wrap(err, "reset database")
	}
	var first error
	for step := 0; step < r.cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.Step(ctx, step)
		r.maybeLogStats(step + 1)
		if err == nil {
			continue
		}
		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			return err
		}
		if first == nil {
			first = err
		}
		if r.cfg.StopOnMismatch {
			break
		}
	}
	r.logStats(r.cfg.Steps)
	return first
}

// Step generates and checks a single operation.
func (r *Runner) Step(ctx context.Context, step int) error {
	op, ok := r.gen.Next()
	if !ok {
		r.observeSkip()
		return nil
	}
	sqlText := op.SQL()
	if r.cfg.ValidateSQL {
		if err := r.validate(op); err != nil {
			return errors.Wrapf(err, "step %d generated invalid sql %q", step, sqlText)
		}
	}
	expected := op.Shadow(r.state)
	r.opLog = append(r.opLog, sqlText)
	if r.cfg.Logging.Verbose {
		util.Detailf("step=%d kind=%s sql=%s", step, op.Kind(), sqlText)
	}
	mismatch := r.check(ctx, step, op, expected)
	r.observeStep(op.Kind(), mismatch)
	if mismatch == nil {
		return nil
	}
	r.handleMismatch(ctx, mismatch)
	return mismatch
}

func (r *Runner) validate(op generator.Operation) error {
	stmt, err := r.validator.Parse(op.SQL())
	if err != nil {
		return err
	}
	if kind := validator.StatementKind(stmt); kind != string(op.Kind()) {
		return errors.Errorf("parsed as %s, generated as %s", kind, op.Kind())
	}
	return nil
}
