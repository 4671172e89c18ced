// Package tables holds the encoder's compile-time static data: window
// coefficients, the floor-1 inverse-dB lookup, the envelope shaping curve,
// and the small hard-coded codebook/floor/residue templates that stand in
// for the real Vorbis tuning tables (spec.md 1's "library of hard-coded
// codebook templates... these are data inputs, not logic" — out of scope in
// their original, tuned form; this package supplies a smaller but
// structurally valid replacement so the rest of the encoder has something
// concrete to assemble).
package tables

import "math"

// HalfWindow returns one Vorbis slope half-window of length n: the same
// power-complementary sin(sin^2) taper the donor codec generates for CELT's
// overlap regions (celt/window.go's VorbisWindow), reused here because
// Vorbis's own overlap window is the identical family of curve (a Vorbis
// window by name, applied to Vorbis's own MDCT in this package instead of
// CELT's).
func HalfWindow(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) + 0.5
		s := math.Sin(0.5 * math.Pi * x / float64(n))
		w[i] = math.Sin(0.5 * math.Pi * s * s)
	}
	return w
}
