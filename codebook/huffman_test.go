package codebook

import "testing"

func TestAssignCodewordsPrefixFree(t *testing.T) {
	cases := [][]uint8{
		{1, 2, 3, 3},
		{2, 2, 2, 2},
		{1, 3, 3, 3, 3},
		{3, 0, 2, 3, 3}, // sparse (0 = unused)
	}
	for _, lengths := range cases {
		cw, err := AssignCodewords(lengths)
		if err != nil {
			t.Fatalf("AssignCodewords(%v): %v", lengths, err)
		}
		if len(cw) != len(lengths) {
			t.Fatalf("len(codewords) = %d, want %d", len(cw), len(lengths))
		}
		if !isPrefixFree(lengths, cw) {
			t.Errorf("codewords for %v are not prefix-free", lengths)
		}
	}
}

func TestAssignCodewordsAllUnused(t *testing.T) {
	cw, err := AssignCodewords([]uint8{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cw {
		if c != 0 {
			t.Errorf("expected zero codeword for unused entry, got %d", c)
		}
	}
}

func TestReverseBits(t *testing.T) {
	cases := []struct {
		v    uint32
		n    int
		want uint32
	}{
		{0b1, 1, 0b1},
		{0b10, 2, 0b01},
		{0b110, 3, 0b011},
		{0b1000, 4, 0b0001},
	}
	for _, c := range cases {
		if got := reverseBits(c.v, c.n); got != c.want {
			t.Errorf("reverseBits(%b, %d) = %b, want %b", c.v, c.n, got, c.want)
		}
	}
}
