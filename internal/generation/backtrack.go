package generation

import "sqlsim/internal/util"

// Choice is a fallible generator with its remaining retry budget.
type Choice[T any] struct {
	Retries int
	Gen     func(Source) (T, bool)
}

// Backtrack searches for a value across fallible generators.
//
// Each round it collects the entries that still have retries, picks one
// uniformly and runs it. A produced value is returned at once and costs
// nothing. An abstention charges one retry to that entry only. When every
// entry is exhausted Backtrack returns false; callers treat that as a skip.
//
// Budgets are decremented in place, so the caller can inspect what is left.
func Backtrack[T any](r Source, choices []Choice[T]) (T, bool) {
	pool := make([]int, 0, len(choices))
	for {
		pool = pool[:0]
		for i := range choices {
			if choices[i].Retries > 0 {
				pool = append(pool, i)
			}
		}
		if len(pool) == 0 {
			util.Detailf("backtrack: no more choices left")
			var zero T
			return zero, false
		}
		idx := pool[PickIndex(r, len(pool))]
		if v, ok := choices[idx].Gen(r); ok {
			return v, true
		}
		choices[idx].Retries--
	}
}
