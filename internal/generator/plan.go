package generator

import (
	"sqlsim/internal/generation"
	"sqlsim/internal/util"
)

type action struct {
	kind   Kind
	weight int
	gen    func(generation.Source) (Operation, bool)
}

func (g *Generator) actions() []action {
	w := g.Config.Weights.Actions
	all := []action{
		{KindCreateTable, w.CreateTable, g.genCreateTable},
		{KindCreateIndex, w.CreateIndex, g.genCreateIndex},
		{KindInsert, w.Insert, g.genInsert},
		{KindUpdate, w.Update, g.genUpdate},
		{KindDelete, w.Delete, g.genDelete},
		{KindSelect, w.Select, g.genSelect},
		{KindDropTable, w.DropTable, g.genDropTable},
	}
	out := all[:0]
	for _, a := range all {
		if a.weight > 0 {
			out = append(out, a)
		}
	}
	return out
}

// attempt wraps gen so abstentions are counted per kind.
func (g *Generator) attempt(a action) func(generation.Source) (Operation, bool) {
	return func(r generation.Source) (Operation, bool) {
		op, ok := a.gen(r)
		if !ok {
			g.abstained[a.kind]++
			return nil, false
		}
		return op, true
	}
}

// Next draws the next operation. The action is chosen by weight; if the
// chosen generator abstains (for example an UPDATE with no tables) the
// remaining actions are searched with Backtrack. Next reports false when
// nothing can be generated from the current state.
//
// The returned operation has not been applied; the caller must apply its
// Shadow to g.State once, after or alongside executing it.
func (g *Generator) Next() (Operation, bool) {
	actions := g.actions()
	weighted := make([]generation.Weighted[int, action], len(actions))
	for i, a := range actions {
		weighted[i] = generation.Weighted[int, action]{Weight: a.weight, Gen: func(generation.Source) action { return a }}
	}
	first := generation.Frequency(g.Rand, weighted)
	if op, ok := g.attempt(first)(g.Rand); ok {
		g.generated[op.Kind()]++
		return op, true
	}
	choices := make([]generation.Choice[Operation], len(actions))
	for i, a := range actions {
		choices[i] = generation.Choice[Operation]{Retries: g.Config.Backtrack.Retries, Gen: g.attempt(a)}
	}
	op, ok := generation.Backtrack(g.Rand, choices)
	if !ok {
		g.exhausted++
		util.Warnf("generator exhausted every action at seed %d", g.Seed)
		return nil, false
	}
	g.generated[op.Kind()]++
	return op, true
}
