package transform

import "math"

// MDCT computes the forward Modified Discrete Cosine Transform of a
// 2N-sample windowed block, returning N coefficients: X[k] = sum_n x[n] *
// cos(pi/N * (n+0.5+N/2) * (k+0.5)).
//
// This is the direct O(N^2) formulation (the donor's mdctCoreCompute, ported
// from CELT's overlap-MDCT to Vorbis's plain block transform); a real-FFT
// factorization is the obvious follow-up if block sizes grow, but the fixed
// 256/2048-sample Vorbis I blocks this encoder ever forms make the direct
// sum cheap enough to keep the code simple and branch-free.
func MDCT(samples []float64) []float64 {
	n2 := len(samples)
	n := n2 / 2
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		kPlus := float64(k) + 0.5
		var sum float64
		for i := 0; i < n2; i++ {
			nPlus := float64(i) + 0.5 + float64(n)/2
			sum += samples[i] * math.Cos(math.Pi/float64(n)*nPlus*kPlus)
		}
		out[k] = sum
	}
	return out
}
