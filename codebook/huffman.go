package codebook

import "github.com/pkg/errors"

// ErrNotPrefixFree is returned by AssignCodewords when the input lengths do
// not form a complete or sparsely-complete binary tree (spec.md 4.2).
var ErrNotPrefixFree = errors.New("codebook: lengths do not form a prefix-free code")

// AssignCodewords derives canonical Huffman codewords from an ordered table
// of bit lengths (spec.md 4.2). A length of 0 means "entry unused"; its
// codeword is left as 0 and never transmitted.
//
// The codewords are returned already bit-reversed within their own length so
// that writing them LSB-first (as bitio.Writer does) reproduces the same
// bit sequence a decoder would read while walking the canonical tree
// MSB-first — this is the standard trick for pairing a canonical Huffman
// tree with an LSB-first bit packer.
func AssignCodewords(lengths []uint8) ([]uint32, error) {
	n := len(lengths)
	codewords := make([]uint32, n)

	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen == 0 {
		return codewords, nil
	}
	if maxLen > 32 {
		panic("codebook: length exceeds 32 bits")
	}

	// next free code at the start of each length, canonical-order: walk
	// lengths from shortest to longest, in entry-index order within a
	// length, assigning successive integers and left-shifting the running
	// code by one bit whenever the length increases (standard canonical
	// Huffman assignment).
	var code uint32
	curLen := 1
	assigned := 0
	for l := 1; l <= maxLen; l++ {
		for i := 0; i < n; i++ {
			if int(lengths[i]) != l {
				continue
			}
			codewords[i] = reverseBits(code, l)
			code++
			assigned++
		}
		code <<= 1
		curLen++
	}
	_ = curLen

	if !isPrefixFree(lengths, codewords) {
		return nil, ErrNotPrefixFree
	}
	return codewords, nil
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint32, n int) uint32 {
	var r uint32
	for i := 0; i < n; i++ {
		r |= ((v >> uint(i)) & 1) << uint(n-1-i)
	}
	return r
}

// isPrefixFree verifies that no two (codeword, length) pairs are prefixes of
// each other, interpreting each codeword MSB-first over its length (i.e. the
// pre-reversal canonical order) — testable property 1 in spec.md 8.
func isPrefixFree(lengths []uint8, codewords []uint32) bool {
	type cw struct {
		code uint32
		len  int
	}
	var active []cw
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		// undo the LSB-first reversal to get back the canonical MSB-first
		// integer for the prefix check.
		active = append(active, cw{code: reverseBits(codewords[i], int(l)), len: int(l)})
	}
	for i := range active {
		for j := range active {
			if i == j {
				continue
			}
			a, b := active[i], active[j]
			if a.len > b.len {
				continue
			}
			// a is a prefix of b if the top a.len bits of b match a.code.
			shift := uint(b.len - a.len)
			if a.code == b.code>>shift && a.len != b.len {
				return false
			}
			if a.len == b.len && a.code == b.code && i != j {
				return false
			}
		}
	}
	return true
}
