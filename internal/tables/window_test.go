package tables

import (
	"math"
	"testing"
)

func TestHalfWindowPowerComplementary(t *testing.T) {
	for _, n := range []int{8, 64, 128, 1024} {
		w := HalfWindow(n)
		for i := 0; i < n; i++ {
			sum := w[i]*w[i] + w[n-1-i]*w[n-1-i]
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("n=%d i=%d: w[i]^2+w[n-1-i]^2 = %v, want 1", n, i, sum)
			}
		}
	}
}

func TestHalfWindowMonotoneRising(t *testing.T) {
	w := HalfWindow(32)
	for i := 1; i < len(w); i++ {
		if w[i] < w[i-1] {
			t.Fatalf("HalfWindow not monotone at %d: %v < %v", i, w[i], w[i-1])
		}
	}
	if w[0] <= 0 || w[len(w)-1] >= 1 {
		t.Fatalf("HalfWindow endpoints out of (0,1): %v .. %v", w[0], w[len(w)-1])
	}
}
