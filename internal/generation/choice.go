package generation

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Weight is any numeric type usable as a relative frequency.
type Weight interface {
	constraints.Integer | constraints.Float
}

// Weighted pairs a generator with its relative frequency.
type Weighted[N Weight, T any] struct {
	Weight N
	Gen    func(Source) T
}

// Frequency picks one generator with probability proportional to its weight
// and returns its value. Exactly one draw is taken from r before the chosen
// generator runs. Panics if choices is empty, a weight is negative, the
// total is not positive or the total does not fit the sampling range.
func Frequency[N Weight, T any](r Source, choices []Weighted[N, T]) T {
	if len(choices) == 0 {
		precondition(ErrEmptyChoices, "frequency")
	}
	var total N
	for i, c := range choices {
		if c.Weight < 0 {
			precondition(ErrNegativeWeight, "frequency entry %d", i)
		}
		next := total + c.Weight
		if next < total || math.IsInf(float64(next), 1) {
			precondition(ErrWeightOverflow, "frequency entry %d", i)
		}
		total = next
	}
	if !(total > 0) {
		precondition(ErrNonPositiveWeight, "frequency over %d entries", len(choices))
	}
	if isInteger(total) && uint64(total) > math.MaxInt64 {
		precondition(ErrWeightOverflow, "frequency total %v", total)
	}
	draw := sampleBelow(r, total)
	for _, c := range choices {
		if draw < c.Weight {
			return c.Gen(r)
		}
		draw -= c.Weight
	}
	// Only reachable through float rounding on the last subtraction.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Gen(r)
		}
	}
	panic("unreachable")
}

func isInteger[N Weight](N) bool {
	return N(1)/N(2) == 0
}

// sampleBelow draws uniformly from [0, total).
func sampleBelow[N Weight](r Source, total N) N {
	if !isInteger(total) {
		v := N(r.Float64() * float64(total))
		if v >= total {
			v = 0
		}
		return v
	}
	return N(r.Int63n(int64(total)))
}

// OneOf runs one of gens chosen uniformly.
func OneOf[T any](r Source, gens []func(Source) T) T {
	if len(gens) == 0 {
		precondition(ErrEmptyChoices, "one_of")
	}
	return gens[r.Intn(len(gens))](r)
}

// Pick returns a pointer to a uniformly chosen element of choices. The
// element is not copied; the caller keeps ownership of the slice.
func Pick[T any](r Source, choices []T) *T {
	if len(choices) == 0 {
		precondition(ErrEmptyChoices, "pick")
	}
	return &choices[r.Intn(len(choices))]
}

// PickIndex returns a uniform index in [0, n), for callers that track the
// chosen position themselves.
func PickIndex(r Source, n int) int {
	if n <= 0 {
		precondition(ErrEmptyChoices, "pick_index over %d", n)
	}
	return r.Intn(n)
}

// PickNUnique returns n distinct ints from [lo, hi), in random order.
//
// The whole range is materialized and shuffled, so the cost is O(hi-lo)
// regardless of n. Fine for column and row counts; do not use it on large
// ranges.
func PickNUnique(r Source, lo, hi, n int) []int {
	size := hi - lo
	if size < 0 {
		size = 0
	}
	if n < 0 || n > size {
		precondition(ErrTooManyPicks, "%d from [%d, %d)", n, lo, hi)
	}
	items := make([]int, size)
	for i := range items {
		items[i] = lo + i
	}
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return items[:n:n]
}
