package generation

// Arbitrary produces a value of T, biased toward small and simple values.
// Implementations must always return a value.
type Arbitrary[T any] interface {
	Arbitrary(r Source) T
}

// ArbitrarySized is Arbitrary with the extra constraint that the result never
// exceeds size (string length, row count, column count...). Smaller budgets
// yield cheaper values.
type ArbitrarySized[T any] interface {
	ArbitrarySized(r Source, size int) T
}

// ArbitraryFrom produces a T that depends on src, for example a predicate that
// only references columns of a given table.
type ArbitraryFrom[S, T any] interface {
	ArbitraryFrom(r Source, src S) T
}

// ArbitrarySizedFrom combines ArbitraryFrom and ArbitrarySized.
type ArbitrarySizedFrom[S, T any] interface {
	ArbitrarySizedFrom(r Source, src S, size int) T
}

// ArbitraryFromMaybe fallibly produces a T from src. A false result means no
// valid value exists for src right now; callers abstain rather than fail.
type ArbitraryFromMaybe[S, T any] interface {
	ArbitraryFromMaybe(r Source, src S) (T, bool)
}

// Func adapts a plain function to Arbitrary.
type Func[T any] func(r Source) T

// Arbitrary calls f.
func (f Func[T]) Arbitrary(r Source) T { return f(r) }

// SizedFunc adapts a plain function to ArbitrarySized.
type SizedFunc[T any] func(r Source, size int) T

// ArbitrarySized calls f.
func (f SizedFunc[T]) ArbitrarySized(r Source, size int) T { return f(r, size) }

// FromFunc adapts a plain function to ArbitraryFrom.
type FromFunc[S, T any] func(r Source, src S) T

// ArbitraryFrom calls f.
func (f FromFunc[S, T]) ArbitraryFrom(r Source, src S) T { return f(r, src) }

// SizedFromFunc adapts a plain function to ArbitrarySizedFrom.
type SizedFromFunc[S, T any] func(r Source, src S, size int) T

// ArbitrarySizedFrom calls f.
func (f SizedFromFunc[S, T]) ArbitrarySizedFrom(r Source, src S, size int) T { return f(r, src, size) }

// MaybeFunc adapts a plain function to ArbitraryFromMaybe.
type MaybeFunc[S, T any] func(r Source, src S) (T, bool)

// ArbitraryFromMaybe calls f.
func (f MaybeFunc[S, T]) ArbitraryFromMaybe(r Source, src S) (T, bool) { return f(r, src) }

// Lift binds src so a source-derived generator fits a Weighted or OneOf entry.
func Lift[S, T any](g ArbitraryFrom[S, T], src S) func(Source) T {
	return func(r Source) T { return g.ArbitraryFrom(r, src) }
}

// LiftSized binds a size budget.
func LiftSized[T any](g ArbitrarySized[T], size int) func(Source) T {
	return func(r Source) T { return g.ArbitrarySized(r, size) }
}

// LiftSizedFrom binds both the source value and the size budget.
func LiftSizedFrom[S, T any](g ArbitrarySizedFrom[S, T], src S, size int) func(Source) T {
	return func(r Source) T { return g.ArbitrarySizedFrom(r, src, size) }
}

// LiftMaybe binds src so a fallible generator fits a Choice entry.
func LiftMaybe[S, T any](g ArbitraryFromMaybe[S, T], src S) func(Source) (T, bool) {
	return func(r Source) (T, bool) { return g.ArbitraryFromMaybe(r, src) }
}

// Always turns a total generator into a fallible one that never abstains.
func Always[T any](gen func(Source) T) func(Source) (T, bool) {
	return func(r Source) (T, bool) { return gen(r), true }
}
