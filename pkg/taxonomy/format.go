package taxonomy

import (
	"math"
	"strconv"
)

// FormatMetric renders a metric value for chart labels.
//
// Values of at least one million render with one decimal and an "M" suffix,
// values of at least one thousand render rounded with a "K" suffix, and smaller
// values render as a rounded integer:
//
//	FormatMetric(2_500_000) // "2.5M"
//	FormatMetric(1500)      // "2K"
//	FormatMetric(999)       // "999"
//
// Rounding is half away from zero.
func FormatMetric(n float64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(math.Round(n/100_000)/10, 'f', 1, 64) + "M"
	case n >= 1_000:
		return formatInt(math.Round(n/1_000)) + "K"
	default:
		return formatInt(math.Round(n))
	}
}

func formatInt(v float64) string {
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
