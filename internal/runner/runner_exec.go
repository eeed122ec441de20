package runner

import (
	"context"
	"fmt"
	"time"

	"sqlsim/internal/generator"
	"sqlsim/internal/schema"
)

func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.StatementTimeoutMs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(r.cfg.StatementTimeoutMs)*time.Millisecond)
}

// check submits op and compares the engine's answer with expected. DML is
// followed by a full read of the touched table, since the affected count
// alone does not show which rows changed or how.
func (r *Runner) check(ctx context.Context, step int, op generator.Operation, expected generator.Result) *MismatchError {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	defer func() {
		r.metrics.Duration.WithLabelValues(string(op.Kind())).Observe(time.Since(start).Seconds())
	}()

	if q, ok := op.(generator.Query); ok {
		rows, err := r.exec.Query(qctx, op.SQL(), q.ResultTypes())
		if err != nil {
			return r.engineError(step, op, err)
		}
		if exp, act, equal := compareRows(expected.Rows, rows); !equal {
			return r.newMismatch(step, op, "result_rows", exp, act, 0, 0)
		}
		return nil
	}

	affected, err := r.exec.Exec(qctx, op.SQL())
	if err != nil {
		return r.engineError(step, op, err)
	}
	switch op.Kind() {
	case generator.KindInsert, generator.KindUpdate, generator.KindDelete:
	default:
		return nil
	}
	if int(affected) != expected.Affected {
		return r.newMismatch(step, op, "affected_rows", nil, nil, expected.Affected, int(affected))
	}
	return r.verifyTable(qctx, step, op)
}

func (r *Runner) verifyTable(ctx context.Context, step int, op generator.Operation) *MismatchError {
	tbl, ok := r.state.TableByName(op.TableName())
	if !ok {
		return nil
	}
	types := make([]schema.ColumnType, len(tbl.Columns))
	for i, col := range tbl.Columns {
		types[i] = col.Type
	}
	rows, err := r.exec.Query(ctx, fmt.Sprintf("SELECT * FROM %s", tbl.Name), types)
	if err != nil {
		return r.engineError(step, op, err)
	}
	if exp, act, equal := compareRows(tbl.Rows, rows); !equal {
		return r.newMismatch(step, op, "table_contents", exp, act, 0, 0)
	}
	return nil
}
