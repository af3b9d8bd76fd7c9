package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

// floatPrefix matches the longest leading floating-point literal of a
// whitespace-free string.
var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseNumber converts a cell to a float.
//
// Empty cells read as 0 and numeric cells are returned unchanged. Text cells
// have every whitespace character removed and their first comma turned into a
// period ("1 234,56" -> 1234.56); the longest leading numeric literal is then
// parsed, so "12 kg" reads as 12. Text without a numeric prefix reads as 0.
// ParseNumber never fails: a malformed cell and a zero cell look the same.
func ParseNumber(v dataset.Value) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	if v.IsEmpty() {
		return 0
	}

	text := v.String()
	if text == "" {
		return 0
	}

	cleaned := strings.Replace(stripSpace(text), ",", ".", 1)
	match := floatPrefix.FindString(cleaned)
	if match == "" {
		return 0
	}

	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		// Out-of-range exponents come back as ±Inf (overflow) or 0 (underflow).
		if math.IsInf(f, 0) {
			return f
		}
		return 0
	}
	return f
}

// isSpace reports whether r is a whitespace character in the sense used by
// spreadsheet exports: the Unicode White_Space set plus the byte order mark,
// without NEL (U+0085).
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// stripSpace removes every whitespace character from s.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, s)
}

// trimSpace removes leading and trailing whitespace from s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
