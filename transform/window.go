// Package transform implements the Vorbis overlap-add windowing and
// forward MDCT (spec.md 4.6), grounded on the donor codec's celt/window.go
// (same slope-window family, reused via internal/tables.HalfWindow) and
// celt/mdct_encode.go's direct transform core (mdctCoreCompute), adapted
// here to Vorbis's asymmetric long/short neighbor windowing instead of
// CELT's fixed short overlap.
package transform

import (
	"math"

	"github.com/vorbisenc/vorbisenc/internal/tables"
)

// Window applies the three-region overlap-add taper of spec.md 4.6 to a
// 2*curHalf-sample input block and scales the result by
// 1/2^(log2Block-2). prevHalf and nextHalf are the adjacent blocks' own
// half-sizes (already reduced for short neighbors by the caller), which is
// what produces the "zero-padded" leading/trailing regions of spec.md 4.6:
// a small neighbor half-size simply leaves more of the region
// unwindowed-and-zero on its outer edge.
func Window(samples []float64, curHalf, prevHalf, nextHalf, log2Block int) []float64 {
	n := 2 * curHalf
	out := make([]float64, n)

	prevWin := tables.HalfWindow(prevHalf)
	leadStart := curHalf - prevHalf/2
	for i := 0; i < prevHalf; i++ {
		idx := leadStart + i
		if idx >= 0 && idx < n {
			out[idx] = samples[idx] * prevWin[i]
		}
	}

	midStart := leadStart + prevHalf
	midEnd := curHalf + curHalf/2 - nextHalf/2
	for i := midStart; i < midEnd; i++ {
		if i >= 0 && i < n {
			out[i] = samples[i]
		}
	}

	nextWin := tables.HalfWindow(nextHalf)
	trailStart := curHalf + curHalf/2 - nextHalf/2
	for i := 0; i < nextHalf; i++ {
		idx := trailStart + i
		if idx >= 0 && idx < n {
			out[idx] = samples[idx] * nextWin[nextHalf-1-i]
		}
	}

	scale := 1.0 / math.Pow(2, float64(log2Block-2))
	for i := range out {
		out[i] *= scale
	}
	return out
}
