package generation

import (
	"strings"

	"github.com/goombaio/namegenerator"
)

const (
	// BigTextRatio is the 1-in-N chance of producing a stress string.
	BigTextRatio = 1000
	// BigTextMin and BigTextMax bound stress string lengths, [min, max).
	BigTextMin = 1024
	BigTextMax = 2 * 1024
)

// RandomText returns a short readable token safe to use as an identifier, or,
// once in BigTextRatio calls, a long stress string to exercise large value paths.
func RandomText(r Source) string {
	if GenRatio(r, 1, BigTextRatio) {
		return bigText(GenRange(r, BigTextMin, BigTextMax))
	}
	return readableName(r)
}

// RandomTextSized is RandomText limited to size bytes.
func RandomTextSized(r Source, size int) string {
	if size <= 0 {
		return ""
	}
	if size > BigTextMin && GenRatio(r, 1, BigTextRatio) {
		return bigText(GenRange(r, BigTextMin, min(size+1, BigTextMax)))
	}
	name := readableName(r)
	if len(name) > size {
		name = strings.TrimRight(name[:size], "_")
		if name == "" {
			name = "x"
		}
	}
	return name
}

func bigText(size int) string {
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(byte(i%26) + 'A')
	}
	return sb.String()
}

// readableName draws an adjective-noun pair and normalizes every separator to
// a single underscore.
func readableName(r Source) string {
	raw := namegenerator.NewNameGenerator(r.Int63()).Generate()
	var sb strings.Builder
	sb.Grow(len(raw))
	sep := false
	for _, c := range strings.ToLower(raw) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if sep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			sep = false
			sb.WriteRune(c)
			continue
		}
		sep = true
	}
	if sb.Len() == 0 {
		return "x"
	}
	return sb.String()
}
