package generation

// Shadow is implemented by generated operations. Shadow applies the operation
// to the reference model, leaving it in the state a correct engine reaches,
// and returns what a correct engine would have answered. It must be a pure
// function of the operation and the prior model.
type Shadow[M, R any] interface {
	Shadow(model M) R
}
