// Package generation provides the seeded combinators used to compose random
// workload generators for simulation runs.
//
// Every function takes the Source explicitly. There is no package-level random
// state: a run is reproducible only if a single caller consumes the stream in a
// fixed order, so a Source must never be shared between goroutines.
package generation

import "math/rand"

// Source is the random stream threaded through every generation call.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Int63() int64
	Int63n(n int64) int64
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// New returns a Source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// GenRange returns a uniform int in [lo, hi).
func GenRange(r Source, lo, hi int) int {
	if hi <= lo {
		precondition(ErrEmptyRange, "range [%d, %d)", lo, hi)
	}
	return lo + r.Intn(hi-lo)
}

// GenRangeFloat returns a uniform float64 in [lo, hi).
func GenRangeFloat(r Source, lo, hi float64) float64 {
	if !(hi > lo) {
		precondition(ErrEmptyRange, "range [%g, %g)", lo, hi)
	}
	v := lo + r.Float64()*(hi-lo)
	if v >= hi {
		return lo
	}
	return v
}

// GenRatio returns true with probability num/den.
func GenRatio(r Source, num, den int) bool {
	if den <= 0 || num < 0 || num > den {
		precondition(ErrInvalidRatio, "ratio %d/%d", num, den)
	}
	return r.Intn(den) < num
}
