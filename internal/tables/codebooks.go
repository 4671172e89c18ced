package tables

import "github.com/vorbisenc/vorbisenc/codebook"

// uniformLengths returns n entries all assigned the smallest bit length L
// such that n <= 2^L (n >= 1). A uniform length table is trivially
// prefix-free (distinct equal-length codewords can never prefix one
// another), so it is all the hand-built templates below need — the
// original tuned length tables that trade codeword length for entropy are
// out of scope per spec.md 1.
func uniformLengths(n int) []uint8 {
	l := 1
	for (1 << uint(l)) < n {
		l++
	}
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(l)
	}
	return out
}

// scalarBook builds a plain (lookup-0) entropy book over n symbols.
func scalarBook(n int) *codebook.Book {
	return scalarBookDim(n, 1)
}

// scalarBookDim builds a plain (lookup-0) entropy book over n symbols whose
// serialized dimension is dim. Dimensions has no effect on a LookupNone
// book's actual codeword assignment (codebook/header.go returns before any
// Dimensions-dependent field once Lookup == LookupNone), but a classbook's
// serialized Dimensions must still equal its residue template's Classwords
// (spec.md 4.9 invariant) for a decoder deriving classwords from the
// classbook header to agree with the encoder.
func scalarBookDim(n, dim int) *codebook.Book {
	return &codebook.Book{
		Dimensions: dim,
		Lengths:    uniformLengths(n),
		Lookup:     codebook.LookupNone,
	}
}

// latticeBook builds a lookup-1 VQ book of the given dimension whose V
// quantization values are min, min+delta, min+2*delta, ... — entries =
// V^dim, one per mixed-radix combination.
func latticeBook(dim, v int, min, delta float32) *codebook.Book {
	n := 1
	for i := 0; i < dim; i++ {
		n *= v
	}
	quant := make([]int, v)
	for i := range quant {
		quant[i] = i
	}
	return &codebook.Book{
		Dimensions: dim,
		Lengths:    uniformLengths(n),
		Lookup:     codebook.LookupLattice,
		Min:        min,
		Delta:      delta,
		Quantlist:  quant,
	}
}

// Codebooks is the full, ready-to-serialize set of codebook instances this
// module ships, plus the indices the floor/residue templates below refer
// into it by position.
type Codebooks struct {
	Books []*codebook.Book

	// floor entropy books
	FloorWide, FloorNarrow, FloorMaster int
	// residue classbook and per-class VQ books (one lattice book per class,
	// reused across the one pass each class codes in this template set)
	ResidueClassbook int
	ResidueVQ        []int
}

// BuildCodebooks assembles every codebook instance referenced by
// LongFloorTemplate, ShortFloorTemplate, and ResidueClassBook, and calls
// Ready() on each so the caller only needs to serialize them.
func BuildCodebooks() (*Codebooks, error) {
	c := &Codebooks{}
	add := func(b *codebook.Book) (int, error) {
		if err := b.Ready(); err != nil {
			return 0, err
		}
		c.Books = append(c.Books, b)
		return len(c.Books) - 1, nil
	}

	var err error
	if c.FloorWide, err = add(scalarBook(512)); err != nil {
		return nil, err
	}
	if c.FloorNarrow, err = add(scalarBook(16)); err != nil {
		return nil, err
	}
	if c.FloorMaster, err = add(scalarBook(2)); err != nil {
		return nil, err
	}
	// Dimensions must equal Classwords (2, set below) per spec.md 4.9.
	if c.ResidueClassbook, err = add(scalarBookDim(residueClasses*residueClasses, 2)); err != nil {
		return nil, err
	}
	for _, spec := range []struct {
		min, delta float32
	}{
		{-1, 1}, // class 0: coarse
		{-2, 1}, // class 1: wider
		{-3, 1}, // class 2 (fallback): widest
	} {
		idx, err := add(latticeBook(residueDim, residueLatticeV, spec.min, spec.delta))
		if err != nil {
			return nil, err
		}
		c.ResidueVQ = append(c.ResidueVQ, idx)
	}
	return c, nil
}

const (
	residueClasses   = 3
	residueDim       = 2
	residueLatticeV  = 3
)

// LongFloorTemplate returns the floor-1 layout used by long-block modes:
// 10-bit range (1024 Y-bins' worth of X domain, matching the long block's
// 1024-sample half-window), bisected 3 levels deep for 7 partition points
// split across a plain class and a subclass-packed class.
func LongFloorTemplate(c *Codebooks) FloorTemplate {
	classes := []FloorClass{
		{Dim: 1, SubclassBits: 0, Masterbook: -1, Books: []int{c.FloorWide}},
		{Dim: 1, SubclassBits: 1, Masterbook: c.FloorMaster, Books: []int{c.FloorNarrow, c.FloorWide}},
	}
	return NewFloorTemplate(10, 1, 3, classes, []int{0, 1})
}

// ShortFloorTemplate is the short-block analog: 7-bit range matching the
// short block's 128-sample half-window, bisected 2 levels deep.
func ShortFloorTemplate(c *Codebooks) FloorTemplate {
	classes := []FloorClass{
		{Dim: 1, SubclassBits: 0, Masterbook: -1, Books: []int{c.FloorWide}},
		{Dim: 1, SubclassBits: 1, Masterbook: c.FloorMaster, Books: []int{c.FloorNarrow, c.FloorWide}},
	}
	return NewFloorTemplate(7, 1, 2, classes, []int{0, 1})
}

// ResidueClassBook returns the shared residue type-2 template: 8-coefficient
// partitions, 2-at-a-time classword packing, 3 classifications each coding
// only pass 0 against an increasingly wide lattice VQ book (class 2 is the
// catch-all "everything else" classification, spec.md 3).
func ResidueClassBook(c *Codebooks) ResidueTemplate {
	classes := make([]ResidueClass, residueClasses)
	for i := range classes {
		classes[i].PassBooks = [8]int{-1, -1, -1, -1, -1, -1, -1, -1}
		classes[i].PassBooks[0] = c.ResidueVQ[i]
	}
	return ResidueTemplate{
		PartitionSize: 8,
		Classbook:     c.ResidueClassbook,
		Classwords:    2,
		Classes:       classes,
	}
}
