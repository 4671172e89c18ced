package floor1

import (
	"github.com/vorbisenc/vorbisenc/bitio"
	"github.com/vorbisenc/vorbisenc/codebook"
	"github.com/vorbisenc/vorbisenc/internal/tables"
	"github.com/vorbisenc/vorbisenc/util"
)

// Encode writes the non-zero flag, the two raw anchor posts, and every
// partition's class-coded delta (spec.md 4.8). books must be indexable by
// the FloorClass.Masterbook / Books indices in tmpl.Classes.
func Encode(w *bitio.Writer, posts []int, tmpl tables.FloorTemplate, books []*codebook.Book) error {
	rng := tmpl.Range()

	if err := w.PutBits(1, 1); err != nil {
		return err
	}
	anchorBits := util.Ilog(rng - 1)
	if err := w.PutBits(anchorBits, uint32(posts[0])); err != nil {
		return err
	}
	if err := w.PutBits(anchorBits, uint32(posts[1])); err != nil {
		return err
	}

	coded := deltaCode(posts, tmpl, rng)

	counter := 2
	for _, classIdx := range tmpl.Partitions {
		class := tmpl.Classes[classIdx]
		if err := encodePartition(w, coded, counter, class, books); err != nil {
			return err
		}
		counter += class.Dim
	}
	return nil
}

// deltaCode performs floor1_encode's step 2: for every point beyond the two
// fixed anchors, predict its Y value by linear interpolation between its
// precomputed neighbors and record the signed, room-adjusted delta (or the
// 0/-1 sentinels from spec.md 9's three-valued convention).
func deltaCode(posts []int, tmpl tables.FloorTemplate, rng int) []int {
	coded := make([]int, tmpl.Values())
	for i := 2; i < tmpl.Values(); i++ {
		lo, hi := tmpl.Low[i], tmpl.High[i]
		predicted := renderPoint(tmpl.X[lo], posts[lo], tmpl.X[hi], posts[hi], tmpl.X[i])
		highroom := rng - predicted
		lowroom := predicted
		room := minInt(highroom, lowroom)

		post := posts[i]
		switch {
		case post == predicted:
			coded[i] = 0
		case post > predicted:
			delta := post - predicted
			if delta > room {
				coded[i] = delta + lowroom
			} else {
				coded[i] = 2 * delta
			}
		default:
			delta := predicted - post
			if delta > room {
				coded[i] = delta + highroom - 1
			} else {
				coded[i] = 2*delta - 1
			}
		}
		if coded[i] != 0 {
			coded[lo] = maxInt(coded[lo], -1)
			coded[hi] = maxInt(coded[hi], -1)
		}
	}
	return coded
}

// renderPoint linearly interpolates the Y value at x between (x0,y0) and
// (x1,y1), matching the reference encoder's integer render_point.
func renderPoint(x0, y0, x1, y1, x int) int {
	dy := y1 - y0
	adx := x1 - x0
	if adx <= 0 {
		return y0
	}
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	off := ady * (x - x0) / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// rawValue maps the three-valued coded convention to the integer actually
// transmitted: -1 ("present but zero") and 0 ("unused, nothing to select
// but still representable") both carry the wire value 0.
func rawValue(coded int) int {
	if coded < 0 {
		return 0
	}
	return coded
}

// encodePartition packs and emits one partition's class data: if the class
// has subclass bits, a masterbook-coded selector naming, per point, which
// subclass book represents that point's value; then each point's value via
// its selected book.
func encodePartition(w *bitio.Writer, coded []int, counter int, class tables.FloorClass, books []*codebook.Book) error {
	nsub := 1 << uint(class.SubclassBits)
	subOf := func(k int) int {
		v := rawValue(coded[counter+k])
		for sub := 0; sub < nsub; sub++ {
			if books[class.Books[sub]].Represents(v) {
				return sub
			}
		}
		panic("floor1: no subclass book can represent value")
	}

	if class.SubclassBits > 0 {
		var cval int
		base := 1
		for k := 0; k < class.Dim; k++ {
			cval += subOf(k) * base
			base *= nsub
		}
		if err := books[class.Masterbook].PutScalar(w, cval); err != nil {
			return err
		}
	}

	for k := 0; k < class.Dim; k++ {
		sub := 0
		if class.SubclassBits > 0 {
			sub = subOf(k)
		}
		book := books[class.Books[sub]]
		if err := book.PutScalar(w, rawValue(coded[counter+k])); err != nil {
			return err
		}
	}
	return nil
}
