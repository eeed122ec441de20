package generation

import (
	"strings"
	"testing"
)

func TestRandomTextIdentifierShape(t *testing.T) {
	r := New(21)
	for i := 0; i < 500; i++ {
		s := RandomText(r)
		if s == "" {
			t.Fatalf("empty text")
		}
		if len(s) >= BigTextMin {
			continue
		}
		if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
			t.Fatalf("untrimmed separator in %q", s)
		}
		for _, c := range s {
			if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
				t.Fatalf("unexpected rune %q in %q", c, s)
			}
		}
	}
}

func TestRandomTextDeterministic(t *testing.T) {
	a, b := New(5), New(5)
	for i := 0; i < 100; i++ {
		if x, y := RandomText(a), RandomText(b); x != y {
			t.Fatalf("text diverged at %d: %q != %q", i, x, y)
		}
	}
}

func TestRandomTextSizedRespectsBudget(t *testing.T) {
	r := New(9)
	for _, size := range []int{0, 1, 3, 8, 64} {
		for i := 0; i < 200; i++ {
			s := RandomTextSized(r, size)
			if len(s) > size {
				t.Fatalf("size %d: got %d bytes", size, len(s))
			}
			if size > 0 && s == "" {
				t.Fatalf("size %d: empty text", size)
			}
		}
	}
}

func TestBigTextPattern(t *testing.T) {
	s := bigText(30)
	if len(s) != 30 || !strings.HasPrefix(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZABCD") {
		t.Fatalf("unexpected big text %q", s)
	}
}
