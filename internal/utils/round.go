package utils

import "math"

// Round2 rounds v to two decimal places as math.Round(v*100)/100: halves
// (x.xx5 after scaling) round away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
