package util

// Intner is the slice of a random source Chance needs.
type Intner interface {
	Intn(n int) int
}

// Chance returns true with a given percent chance.
func Chance(r Intner, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.Intn(100) < percent
}
