package tables

import "math"

// Shape evaluates the envelope-shaping curve 1.25^(x*0.005) used by
// floor_fit (spec.md 4.7) to bias the floor target toward preserving more
// precision at low frequencies.
func Shape(x float64) float64 {
	return math.Pow(1.25, x*0.005)
}
