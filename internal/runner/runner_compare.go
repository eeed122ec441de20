package runner

import (
	"fmt"
	"sort"
	"strings"

	"sqlsim/internal/db"
	"sqlsim/internal/generator"
	"sqlsim/internal/schema"
)

// MismatchError reports a step where the engine disagreed with the shadow
// model, or failed a statement the model expected to succeed.
type MismatchError struct {
	Seed             int64
	Step             int
	Kind             generator.Kind
	SQL              string
	Reason           string
	Expected         []string
	Actual           []string
	ExpectedAffected int
	ActualAffected   int
	Err              error
	CaseDir          string
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mismatch at step %d (seed %d, %s, %s): %s", e.Step, e.Seed, e.Kind, e.Reason, e.SQL)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Reason == "affected_rows" {
		fmt.Fprintf(&b, ": expected %d affected, got %d", e.ExpectedAffected, e.ActualAffected)
	}
	return b.String()
}

// Unwrap returns the engine error, if any.
func (e *MismatchError) Unwrap() error {
	return e.Err
}

func (r *Runner) newMismatch(step int, op generator.Operation, reason string, exp, act []string, expAffected, actAffected int) *MismatchError {
	return &MismatchError{
		Seed:             r.cfg.Seed,
		Step:             step,
		Kind:             op.Kind(),
		SQL:              op.SQL(),
		Reason:           reason,
		Expected:         exp,
		Actual:           act,
		ExpectedAffected: expAffected,
		ActualAffected:   actAffected,
	}
}

func (r *Runner) engineError(step int, op generator.Operation, err error) *MismatchError {
	m := r.newMismatch(step, op, classifyEngineError(r.exec, err), nil, nil, 0, 0)
	m.Err = err
	if code, ok := db.ErrorCode(err); ok {
		r.metrics.EngineErrors.WithLabelValues(fmt.Sprint(code)).Inc()
	} else {
		r.metrics.EngineErrors.WithLabelValues("none").Inc()
	}
	return m
}

// compareRows compares two row multisets. Order is ignored; duplicates count.
func compareRows(expected, actual []schema.Row) (exp []string, act []string, equal bool) {
	exp = rowSignatures(expected)
	act = rowSignatures(actual)
	if len(exp) != len(act) {
		return exp, act, false
	}
	for i := range exp {
		if exp[i] != act[i] {
			return exp, act, false
		}
	}
	return exp, act, true
}

func rowSignatures(rows []schema.Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.String()
	}
	sort.Strings(out)
	return out
}
