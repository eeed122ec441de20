package generation

import "github.com/pkg/errors"

// Precondition violations. They indicate a misconfigured generator, so the
// combinators panic with one of these (wrapped with a stack) instead of
// returning it. Use errors.Is on the recovered value to match.
var (
	ErrEmptyChoices      = errors.New("generation: empty choice set")
	ErrNegativeWeight    = errors.New("generation: negative weight")
	ErrNonPositiveWeight = errors.New("generation: total weight is not positive")
	ErrWeightOverflow    = errors.New("generation: total weight overflows")
	ErrTooManyPicks      = errors.New("generation: more unique picks than the range holds")
	ErrEmptyRange        = errors.New("generation: empty sampling range")
	ErrInvalidRatio      = errors.New("generation: invalid ratio")
)

func precondition(err error, format string, args ...any) {
	panic(errors.Wrapf(err, format, args...))
}
