package floor1

import "github.com/vorbisenc/vorbisenc/internal/tables"

// Render walks the floor points in ascending X order and fills a
// `samples`-long linear-magnitude curve by piecewise-linear interpolation
// between consecutive posts, mapped through the inverse-dB table (spec.md
// 4.8 step 4).
func Render(posts []int, tmpl tables.FloorTemplate, samples int) []float64 {
	out := make([]float64, samples)
	values := tmpl.Values()

	for i := 0; i < values-1; i++ {
		a, b := tmpl.SortIdx[i], tmpl.SortIdx[i+1]
		x0, y0 := tmpl.X[a], posts[a]
		x1, y1 := tmpl.X[b], posts[b]
		if x1 <= x0 {
			continue
		}
		end := x1
		if end > samples {
			end = samples
		}
		for x := x0; x < end; x++ {
			y := renderPoint(x0, y0, x1, y1, x)
			idx := y * tmpl.Multiplier
			if idx >= tables.InverseDBSize {
				idx = tables.InverseDBSize - 1
			}
			if idx < 0 {
				idx = 0
			}
			out[x] = tables.InverseDB[idx]
		}
	}
	return out
}
