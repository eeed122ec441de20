package generator

// Generator tuning constants are centralized here to avoid scattering magic numbers.
// All values are expressed as percentages or small caps unless otherwise noted.

const (
	// SmallIntMax bounds the common integer range [-SmallIntMax, SmallIntMax].
	SmallIntMax = 10
	// WideIntMax bounds the occasional wide integer range. Kept far from the
	// int64 limits so repeated increments never overflow into REAL.
	WideIntMax = 1 << 20
	// RealScale is the denominator used for REAL literals. Quarters are
	// exactly representable, so engine and shadow arithmetic agree bit for bit.
	RealScale = 4
	// RealUnitsMax bounds REAL literals to [-RealUnitsMax, RealUnitsMax]/RealScale.
	RealUnitsMax = 400000
	// BlobLenMax caps BLOB literal length in bytes.
	BlobLenMax = 16
)

const (
	// InListMax is the maximum number of items in an IN list.
	InListMax = 4
	// ExistingValueProb is the chance a comparison reuses a value already in the table.
	ExistingValueProb = 50
	// PredicateWidenProb is the chance a row-satisfying predicate is combined with another term.
	PredicateWidenProb = 30
)

const (
	// SelectStarProb is the chance to project every column in table order.
	SelectStarProb = 30
	// SelectDistinctProb is the chance to add DISTINCT.
	SelectDistinctProb = 15
	// IndexColsMax caps columns in a generated index.
	IndexColsMax = 3
	// UpdateDeltaMax bounds the increment used by UPDATE ... SET c = c + k.
	UpdateDeltaMax = 10
)
