package generator

import (
	"fmt"

	"sqlsim/internal/config"
	"sqlsim/internal/generation"
	"sqlsim/internal/schema"
)

// Generator creates simulation operations based on the shadow state.
type Generator struct {
	Rand       generation.Source
	Config     config.Config
	State      *schema.State
	Seed       int64
	Values     ValueGen
	Rows       RowGen
	Tables     TableGen
	Predicates PredicateGen
	indexSeq   int
	generated  map[Kind]int64
	abstained  map[Kind]int64
	exhausted  int64
}

// Stats captures per-kind generation counters.
type Stats struct {
	Generated map[Kind]int64
	Abstained map[Kind]int64
	Exhausted int64
}

// New constructs a Generator reading and describing state. The seed is used
// as given; a zero seed is a valid seed.
func New(cfg config.Config, state *schema.State, seed int64) *Generator {
	values := ValueGen{}
	return &Generator{
		Rand:       generation.New(seed),
		Config:     cfg,
		State:      state,
		Seed:       seed,
		Values:     values,
		Rows:       RowGen{Values: values},
		Tables:     TableGen{MaxColumns: cfg.MaxColumns, NameRetries: cfg.Backtrack.NameRetries},
		Predicates: PredicateGen{Values: values, Depth: cfg.PredicateDepth},
		generated:  make(map[Kind]int64),
		abstained:  make(map[Kind]int64),
	}
}

// Stats returns a snapshot of generation counters.
func (g *Generator) Stats() Stats {
	out := Stats{
		Generated: make(map[Kind]int64, len(g.generated)),
		Abstained: make(map[Kind]int64, len(g.abstained)),
		Exhausted: g.exhausted,
	}
	for k, v := range g.generated {
		out.Generated[k] = v
	}
	for k, v := range g.abstained {
		out.Abstained[k] = v
	}
	return out
}

// NextIndexName returns an index name unused by any table or index.
func (g *Generator) NextIndexName() string {
	for {
		name := fmt.Sprintf("idx_%d", g.indexSeq)
		g.indexSeq++
		if !g.State.NameInUse(name) {
			return name
		}
	}
}
