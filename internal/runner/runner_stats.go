package runner

import (
	"fmt"
	"sort"
	"strings"

	"sqlsim/internal/generator"
	"sqlsim/internal/util"
)

type runStats struct {
	steps      int64
	skipped    int64
	mismatches int64
	kinds      map[generator.Kind]int64
}

func newRunStats() runStats {
	return runStats{kinds: make(map[generator.Kind]int64)}
}

func (s runStats) clone() runStats {
	out := s
	out.kinds = make(map[generator.Kind]int64, len(s.kinds))
	for k, v := range s.kinds {
		out.kinds[k] = v
	}
	return out
}

func (r *Runner) observeStep(kind generator.Kind, mismatch *MismatchError) {
	r.statsMu.Lock()
	r.stats.steps++
	r.stats.kinds[kind]++
	if mismatch != nil {
		r.stats.mismatches++
	}
	r.statsMu.Unlock()
	r.metrics.Operations.WithLabelValues(string(kind)).Inc()
	if mismatch != nil {
		r.metrics.Mismatches.Inc()
	}
	r.metrics.ShadowRows.Set(float64(r.state.RowCount()))
	r.metrics.ShadowTables.Set(float64(len(r.state.Tables)))
}

func (r *Runner) observeSkip() {
	r.statsMu.Lock()
	r.stats.skipped++
	r.statsMu.Unlock()
	r.metrics.Skipped.Inc()
}

// Stats returns a copy of the run counters: steps executed, steps skipped,
// mismatches and operations by kind.
func (r *Runner) Stats() (steps, skipped, mismatches int64, kinds map[generator.Kind]int64) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	s := r.stats.clone()
	return s.steps, s.skipped, s.mismatches, s.kinds
}

func (r *Runner) maybeLogStats(step int) {
	interval := r.cfg.Logging.ReportIntervalSteps
	if interval <= 0 || step%interval != 0 || step == r.cfg.Steps {
		return
	}
	r.logStats(step)
}

func (r *Runner) logStats(step int) {
	r.statsMu.Lock()
	cur := r.stats.clone()
	last := r.lastReport
	r.lastReport = cur.clone()
	r.statsMu.Unlock()

	util.Infof(
		"run stats: step=%d executed=%d (+%d) skipped=%d mismatches=%d tables=%d rows=%d kinds=[%s]",
		step, cur.steps, cur.steps-last.steps, cur.skipped, cur.mismatches,
		len(r.state.Tables), r.state.RowCount(), formatKinds(cur.kinds),
	)
	gs := r.gen.Stats()
	if gs.Exhausted > 0 || len(gs.Abstained) > 0 {
		util.Detailf("generator stats: exhausted=%d abstained=[%s]", gs.Exhausted, formatKinds(gs.Abstained))
	}
}

func formatKinds(kinds map[generator.Kind]int64) string {
	keys := make([]string, 0, len(kinds))
	for k := range kinds {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[generator.Kind(k)]))
	}
	return strings.Join(parts, " ")
}
