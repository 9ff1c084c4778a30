package utils

import (
	"math"
	"strconv"
	"strings"
)

// MaxFractionDigits is how many decimals FormatNumber keeps.
const MaxFractionDigits = 10

// FormatNumber renders v the way both executors print numbers: at most ten
// decimals, rounded half to even, trailing zeros and a trailing dot removed,
// no exponent and no grouping.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > MaxFractionDigits {
		s = strconv.FormatFloat(v, 'f', MaxFractionDigits, 64)
	}
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "0" && math.Signbit(v) {
		return "-0"
	}
	return s
}
