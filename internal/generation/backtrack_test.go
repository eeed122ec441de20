package generation

import "testing"

func TestBacktrackAlwaysFailingExhausts(t *testing.T) {
	r := New(1)
	calls := 0
	fail := func(Source) (int, bool) {
		calls++
		return 0, false
	}
	choices := []Choice[int]{{Retries: 3, Gen: fail}, {Retries: 2, Gen: fail}}
	if _, ok := Backtrack(r, choices); ok {
		t.Fatalf("expected exhaustion")
	}
	if calls != 5 {
		t.Fatalf("expected one call per retry, got %d", calls)
	}
	for i, c := range choices {
		if c.Retries != 0 {
			t.Fatalf("choice %d has %d retries left", i, c.Retries)
		}
	}
}

func TestBacktrackFallsThroughToSuccess(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		r := New(seed)
		choices := []Choice[string]{
			{Retries: 4, Gen: func(Source) (string, bool) { return "", false }},
			{Retries: 1, Gen: Always(constGen("x"))},
		}
		got, ok := Backtrack(r, choices)
		if !ok || got != "x" {
			t.Fatalf("seed %d: got %q, %v", seed, got, ok)
		}
		if choices[1].Retries != 1 {
			t.Fatalf("success must not consume budget")
		}
	}
}

func TestBacktrackBudgetsOnlyDecrease(t *testing.T) {
	r := New(12)
	budgets := []int{5, 0, 3}
	choices := make([]Choice[int], len(budgets))
	for i, b := range budgets {
		i := i
		choices[i] = Choice[int]{Retries: b, Gen: func(r Source) (int, bool) {
			return i, r.Intn(10) == 0
		}}
	}
	total := 0
	for _, b := range budgets {
		total += b
	}
	steps := 0
	for {
		before := make([]int, len(choices))
		for i, c := range choices {
			before[i] = c.Retries
		}
		v, ok := Backtrack(r, choices)
		for i, c := range choices {
			if c.Retries > before[i] {
				t.Fatalf("budget %d increased from %d to %d", i, before[i], c.Retries)
			}
		}
		if ok && v == 1 {
			t.Fatalf("choice with zero budget was run")
		}
		if !ok {
			break
		}
		steps++
		if steps > 10*total+10 {
			t.Fatalf("backtrack did not terminate")
		}
	}
	for i, c := range choices {
		if c.Retries != 0 {
			t.Fatalf("choice %d still has budget %d after exhaustion", i, c.Retries)
		}
	}
}

func TestBacktrackEmpty(t *testing.T) {
	if _, ok := Backtrack[int](New(1), nil); ok {
		t.Fatalf("empty backtrack must report false")
	}
}

func TestLiftMaybeAbstains(t *testing.T) {
	evens := MaybeFunc[int, int](func(r Source, n int) (int, bool) {
		if n%2 != 0 {
			return 0, false
		}
		return n / 2, true
	})
	r := New(3)
	if _, ok := Backtrack(r, []Choice[int]{{Retries: 2, Gen: LiftMaybe[int, int](evens, 3)}}); ok {
		t.Fatalf("odd input must abstain")
	}
	got, ok := Backtrack(r, []Choice[int]{{Retries: 2, Gen: LiftMaybe[int, int](evens, 8)}})
	if !ok || got != 4 {
		t.Fatalf("unexpected result %d, %v", got, ok)
	}
}
