// Package floor1 implements the Vorbis floor-type-1 spectral envelope:
// fitting a piecewise-linear log-magnitude curve to a block's MDCT
// coefficients (spec.md 4.7), coding it against a partitioned set of
// codebooks (spec.md 4.8), and rendering the coded curve back to a linear
// magnitude array for flattening the residue.
//
// Grounded on the original encoder's get_floor_average / floor_fit /
// render_point / floor_encode (libavcodec/vorbisenc.c).
package floor1

import (
	"math"

	"github.com/vorbisenc/vorbisenc/internal/tables"
)

// Fit computes one posts[] value per floor point (spec.md 4.7): the
// smallest Y-bin whose inverse-dB value exceeds a quality-scaled, shaped
// average magnitude around that point.
func Fit(coeffs []float64, tmpl tables.FloorTemplate, quality float64) []int {
	values := tmpl.Values()
	averages := make([]float64, values)

	for i := 0; i < values; i++ {
		loLogical := tmpl.SortIdx[maxInt(i-1, 0)]
		hiLogical := tmpl.SortIdx[minInt(i+1, values-1)]
		lo, hi := tmpl.X[loLogical], tmpl.X[hiLogical]
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		cnt := 0
		for x := lo; x < hi && x < len(coeffs); x++ {
			sum += math.Abs(coeffs[x])
			cnt++
		}
		if cnt > 0 {
			averages[i] = sum / float64(cnt)
		}
	}

	var totSum float64
	for _, a := range averages {
		totSum += a
	}
	tot := totSum / float64(values) / quality

	rng := tmpl.Range()
	posts := make([]int, values)
	for i := 0; i < values; i++ {
		logical := tmpl.SortIdx[i]
		target := math.Sqrt(tot*averages[i]) * tables.Shape(float64(tmpl.X[logical]))
		posts[logical] = smallestBin(target, tmpl.Multiplier, rng)
	}
	return posts
}

// smallestBin returns the smallest j in [0,rng) such that
// InverseDB[j*multiplier] > target, clamped to rng-1 if target exceeds the
// whole table's range.
func smallestBin(target float64, multiplier, rng int) int {
	for j := 0; j < rng; j++ {
		idx := j * multiplier
		if idx >= tables.InverseDBSize {
			idx = tables.InverseDBSize - 1
		}
		if tables.InverseDB[idx] > target {
			return j
		}
	}
	return rng - 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
