// Package residue implements the Vorbis residue type-2 coder (spec.md 4.9):
// channel-interleaved coefficient classification and multi-pass VQ coding
// against a shared classbook and per-class fallback books.
//
// Grounded on the original encoder's residue_encode (libavcodec/vorbisenc.c)
// for the classify/pass-walk structure, and on jfreymuth's decode-side
// residue.go (the other pack member implementing the same residue type from
// the read side) for the channel/offset interleave-cursor shape.
package residue

import (
	"math"

	"github.com/vorbisenc/vorbisenc/bitio"
	"github.com/vorbisenc/vorbisenc/codebook"
	"github.com/vorbisenc/vorbisenc/internal/tables"
)

// Coder wraps a residue template with its runtime-derived classification
// thresholds (spec.md 3's maxes[class][ch]).
type Coder struct {
	tmpl  tables.ResidueTemplate
	books []*codebook.Book
	maxes [][]float64 // maxes[class][ch]
}

// NewCoder derives maxes from each classification's first non-skipping
// book: the peak absolute lattice coordinate across that book's active
// vectors, plus the 0.8 bias the reference encoder applies (spec.md 3).
func NewCoder(tmpl tables.ResidueTemplate, books []*codebook.Book, channels int) *Coder {
	c := &Coder{tmpl: tmpl, books: books}
	c.maxes = make([][]float64, len(tmpl.Classes))
	for ci, class := range tmpl.Classes {
		peak := peakBookMagnitude(class, books)
		row := make([]float64, channels)
		for ch := range row {
			row[ch] = peak + 0.8
		}
		c.maxes[ci] = row
	}
	return c
}

func peakBookMagnitude(class tables.ResidueClass, books []*codebook.Book) float64 {
	for _, bi := range class.PassBooks {
		if bi < 0 {
			continue
		}
		book := books[bi]
		var peak float64
		for i := 0; i < book.NEntries(); i++ {
			if book.Lengths[i] == 0 {
				continue
			}
			v := book.Vector(i)
			if v == nil {
				continue
			}
			for _, coord := range v {
				if a := math.Abs(coord); a > peak {
					peak = a
				}
			}
		}
		return peak
	}
	return 0
}

// cursor walks the channel-interleaved coefficient stream: position i maps
// to (channel = i mod realCh, offset = i div realCh).
type cursor struct {
	coeffs [][]float64
	realCh int
	i      int
}

func (c *cursor) peek(n int) []float64 {
	out := make([]float64, n)
	j := c.i
	for k := 0; k < n; k++ {
		ch := j % c.realCh
		off := j / c.realCh
		out[k] = c.coeffs[ch][off]
		j++
	}
	return out
}

func (c *cursor) subtract(residual []float64) {
	j := c.i
	for _, v := range residual {
		ch := j % c.realCh
		off := j / c.realCh
		c.coeffs[ch][off] -= v
		j++
	}
	c.i = j
}

// classify returns the smallest class index c in [0, C-1) such that every
// channel's peak magnitude over the partition is below maxes[c][ch];
// otherwise C-1 (spec.md 4.9's classification rule, also spec.md 8 property
// 6).
func (co *Coder) classify(coeffs [][]float64, realCh, begin, ps int) int {
	C := len(co.tmpl.Classes)
	peaks := make([]float64, realCh)
	for k := 0; k < ps; k++ {
		pos := begin + k
		ch := pos % realCh
		off := pos / realCh
		if v := math.Abs(coeffs[ch][off]); v > peaks[ch] {
			peaks[ch] = v
		}
	}
	for c := 0; c < C-1; c++ {
		ok := true
		for ch := 0; ch < realCh; ch++ {
			if peaks[ch] >= co.maxes[c][ch] {
				ok = false
				break
			}
		}
		if ok {
			return c
		}
	}
	return C - 1
}

// Encode performs the full multi-pass residue walk over the interleaved
// range [begin,end) (spec.md 4.9). coeffs is mutated in place: each VQ pass
// subtracts its winning vector so later passes see the residual.
func (co *Coder) Encode(w *bitio.Writer, coeffs [][]float64, realCh, begin, end int) error {
	ps := co.tmpl.PartitionSize
	nPartitions := (end - begin) / ps

	classes := make([]int, nPartitions)
	for p := 0; p < nPartitions; p++ {
		classes[p] = co.classify(coeffs, realCh, begin+p*ps, ps)
	}

	classbook := co.books[co.tmpl.Classbook]
	cw := co.tmpl.Classwords

	for pass := 0; pass < 8; pass++ {
		for p0 := 0; p0 < nPartitions; p0 += cw {
			if pass == 0 {
				entry := 0
				C := len(co.tmpl.Classes)
				for k := 0; k < cw; k++ {
					entry *= C
					if p0+k < nPartitions {
						entry += classes[p0+k]
					}
				}
				if err := classbook.PutScalar(w, entry); err != nil {
					return err
				}
			}

			for k := 0; k < cw && p0+k < nPartitions; k++ {
				p := p0 + k
				bi := co.tmpl.Classes[classes[p]].PassBooks[pass]
				if bi < 0 {
					continue
				}
				book := co.books[bi]
				dim := book.Dimensions
				cur := &cursor{coeffs: coeffs, realCh: realCh, i: begin + p*ps}
				for stride := 0; stride < ps; stride += dim {
					x := cur.peek(dim)
					residual, err := book.PutVector(w, x)
					if err != nil {
						return err
					}
					cur.subtract(residual)
				}
			}
		}
	}
	return nil
}
