// Package codebook implements the Vorbis codebook data model: canonical
// Huffman codeword assignment, VQ lattice/dense vector reconstruction, the
// nearest-neighbor search used to encode residue/floor values, and the
// setup-header serialization for a codebook block.
//
// Grounded on spec.md 4.2-4.4 and the original encoder's ready_codebook /
// put_codebook_header / put_vector (libavcodec/vorbisenc.c).
package codebook

import (
	"math"

	"github.com/pkg/errors"
	"github.com/vorbisenc/vorbisenc/bitio"
)

// Lookup selects how (if at all) a codebook reconstructs per-entry vectors.
type Lookup int

const (
	LookupNone  Lookup = 0
	LookupLattice Lookup = 1
	LookupDense Lookup = 2
)

// Book is one Vorbis codebook: an ordered list of entries with canonical
// Huffman codewords, and — for VQ books — a D-dimensional vector per entry.
type Book struct {
	Dimensions int     // D; 0 for scalar (non-VQ) books
	Lengths    []uint8 // per-entry bit length, 0 = unused
	Lookup     Lookup
	Min        float32
	Delta      float32
	SeqP       bool
	Quantlist  []int // shared 1-D quantization table

	codewords []uint32  // derived by Ready()
	vectors   [][]float64 // entry index -> D-dim reconstructed vector (lookup != 0)
	pow2      []float64   // entry index -> 0.5*sum(v_j^2), for fast nearest-neighbor search
}

// NEntries returns the number of entries in the book.
func (b *Book) NEntries() int { return len(b.Lengths) }

// Ready derives canonical codewords and, for VQ books, materializes the
// per-entry vector lattice and the pow2 search table. Must be called once
// before WriteHeader or PutVector/PutScalar.
func (b *Book) Ready() error {
	cw, err := AssignCodewords(b.Lengths)
	if err != nil {
		return errors.Wrap(err, "codebook: assigning codewords")
	}
	b.codewords = cw

	if b.Lookup == LookupNone {
		b.vectors = nil
		b.pow2 = nil
		return nil
	}

	n := b.NEntries()
	d := b.Dimensions
	vals := lookupVals(b.Lookup, d, n)
	b.vectors = make([][]float64, n)
	b.pow2 = make([]float64, n)
	for i := 0; i < n; i++ {
		vec := make([]float64, d)
		var last float64
		div := 1
		for j := 0; j < d; j++ {
			var off int
			if b.Lookup == LookupLattice {
				off = (i / div) % vals
			} else {
				off = i*d + j
			}
			v := last + float64(b.Min) + float64(b.Quantlist[off])*float64(b.Delta)
			vec[j] = v
			if b.SeqP {
				last = v
			}
			b.pow2[i] += v * v
			div *= vals
		}
		b.pow2[i] /= 2.0
		b.vectors[i] = vec
	}
	return nil
}

// lookupVals returns V = ceil(N^(1/D)) for lookup type 1 (lattice), or N*D
// for lookup type 2 (dense) — spec.md 4.3's cb_lookup_vals equivalent.
func lookupVals(lookup Lookup, dim, entries int) int {
	switch lookup {
	case LookupLattice:
		return nthRoot(entries, dim)
	case LookupDense:
		return dim * entries
	default:
		return 0
	}
}

// nthRoot returns ceil(n^(1/dim)) for positive n and dim, matching
// ff_vorbis_nth_root: the largest integer r such that r^dim <= n is found,
// then bumped up by one if r^dim < n.
func nthRoot(n, dim int) int {
	if n <= 0 || dim <= 0 {
		return 0
	}
	r := int(math.Pow(float64(n), 1.0/float64(dim)))
	for r > 0 && ipow(r, dim) > n {
		r--
	}
	for ipow(r+1, dim) <= n {
		r++
	}
	if ipow(r, dim) < n {
		r++
	}
	return r
}

func ipow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
		if result > 1<<30 {
			return result
		}
	}
	return result
}

// Vector returns the reconstructed D-dim vector for entry i, or nil for a
// book without a lookup (lookup == 0).
func (b *Book) Vector(i int) []float64 {
	if b.vectors == nil {
		return nil
	}
	return b.vectors[i]
}

// putCodeword emits entry's canonical codeword, failing with
// bitio.ErrExhausted if there isn't room. Entries with a zero length are a
// programming error to request (spec.md invariant: lengths[i] used here
// must be > 0).
func (b *Book) putCodeword(w *bitio.Writer, entry int) error {
	l := b.Lengths[entry]
	if l == 0 {
		panic("codebook: attempt to encode an unused entry")
	}
	if w.RemainingBits() < int(l) {
		return bitio.ErrExhausted
	}
	return w.PutBits(int(l), b.codewords[entry])
}

// PutScalar emits the codeword for entry (a plain, non-VQ symbol — used by
// floor1 and residue class/subclass coding).
func (b *Book) PutScalar(w *bitio.Writer, entry int) error {
	return b.putCodeword(w, entry)
}

// Represents reports whether entry's coded value v is representable by this
// book, i.e. 0 <= v < NEntries(); per-entry lengths are not consulted, so an
// in-range entry of length 0 also counts. A book with no entries can only
// represent the value 0 — spec.md 4.8 step 3.
func (b *Book) Represents(v int) bool {
	if b.NEntries() == 0 {
		return v == 0
	}
	return v >= 0 && v < b.NEntries()
}

// PutVector performs the nearest-neighbor VQ search of spec.md 4.4: among
// entries with length > 0, pick the one minimizing pow2[i] - x.v[i], emit
// its codeword, and return its reconstructed vector (the residual the
// caller should subtract from its working coefficients).
func (b *Book) PutVector(w *bitio.Writer, x []float64) ([]float64, error) {
	if b.vectors == nil {
		panic("codebook: PutVector on a non-VQ book")
	}
	best := -1
	bestDist := math.Inf(1)
	for i, vec := range b.vectors {
		if b.Lengths[i] == 0 {
			continue
		}
		d := b.pow2[i]
		for j, vj := range vec {
			d -= vj * x[j]
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		panic("codebook: no active entries to search")
	}
	if err := b.putCodeword(w, best); err != nil {
		return nil, err
	}
	return b.vectors[best], nil
}
