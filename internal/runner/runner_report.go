package runner

import (
	"context"
	"time"

	"sqlsim/internal/report"
	"sqlsim/internal/util"
)

// handleMismatch logs the divergence and writes a case directory holding the
// statement log, the expected schema and rows, and the engine's rows.
func (r *Runner) handleMismatch(ctx context.Context, m *MismatchError) {
	util.Errorf("%v", m)
	c, err := r.reporter.NewCase()
	if err != nil {
		util.Warnf("report case failed: %v", err)
		return
	}
	m.CaseDir = c.Dir
	summary := report.Summary{
		Seed:             m.Seed,
		Step:             m.Step,
		Driver:           r.cfg.Driver,
		Kind:             string(m.Kind),
		SQL:              m.SQL,
		Expected:         m.Expected,
		Actual:           m.Actual,
		ExpectedAffected: m.ExpectedAffected,
		ActualAffected:   m.ActualAffected,
		ErrorReason:      m.Reason,
		CaseID:           c.ID,
		CaseDir:          c.Dir,
		Details: map[string]any{
			"tables":      len(r.state.Tables),
			"shadow_rows": r.state.RowCount(),
			"statements":  len(r.opLog),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if m.Err != nil {
		summary.Error = m.Err.Error()
	}
	if err := r.reporter.WriteSQL(c, "plan.sql", r.opLog); err != nil {
		util.Warnf("write plan.sql failed: %v", err)
	}
	if err := r.reporter.DumpSchema(c, r.state); err != nil {
		util.Warnf("dump schema failed: %v", err)
	}
	if err := r.reporter.DumpExpected(c, r.state); err != nil {
		util.Warnf("dump expected rows failed: %v", err)
	}
	qctx, cancel := r.withTimeout(ctx)
	if err := r.reporter.DumpActual(qctx, c, r.exec, r.state); err != nil {
		util.Warnf("dump engine rows failed: %v", err)
	}
	cancel()
	if r.cfg.Report.Archive {
		name, codec, err := r.reporter.WriteCaseArchive(c)
		if err != nil {
			util.Warnf("case archive failed: %v", err)
		} else {
			summary.ArchiveName = name
			summary.ArchiveCodec = codec
		}
	}
	if r.uploader.Enabled() {
		location, err := r.uploader.UploadDir(ctx, c.Dir)
		if err != nil {
			util.Warnf("upload failed dir=%s err=%v", c.Dir, err)
		} else {
			summary.UploadLocation = location
		}
	}
	if err := r.reporter.WriteSummary(c, summary); err != nil {
		util.Warnf("write summary failed: %v", err)
	}
	util.Highlightf("case written to %s", c.Dir)
}
