package writer

import (
	"math"
	"strconv"
	"strings"
)

// formatNumber renders v with at most precision fractional digits,
// trimming trailing zeros. Whole values that fit an int64 print without a
// decimal point; infinities print as signed "inf".
func formatNumber(v float64, precision int) string {
	if math.IsInf(v, 1) {
		return "+inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}

	if v == math.Trunc(v) && math.Abs(v) < 1e10 {
		return strconv.FormatInt(int64(v), 10)
	}

	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
