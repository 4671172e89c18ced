package codebook

import (
	"math"

	"github.com/vorbisenc/vorbisenc/bitio"
)

// magic is the 24-bit codebook sync pattern "BCV" little-endian, per
// spec.md 4.3.
const magic = 0x564342

// WriteHeader serializes this codebook into the setup header bitstream
// (spec.md 4.3): magic, dimension, entry count, length table (ordered
// run-length or explicit/sparse dump), then lookup metadata and the packed
// quantization values if this is a VQ book.
func (b *Book) WriteHeader(w *bitio.Writer) error {
	if err := w.PutBits(24, magic); err != nil {
		return err
	}
	if err := w.PutBits(16, uint32(b.Dimensions)); err != nil {
		return err
	}
	n := b.NEntries()
	if err := w.PutBits(24, uint32(n)); err != nil {
		return err
	}

	ordered := isOrdered(b.Lengths)
	if err := w.PutBits(1, boolBit(ordered)); err != nil {
		return err
	}
	if ordered {
		if err := writeOrderedLengths(w, b.Lengths); err != nil {
			return err
		}
	} else {
		if err := writeExplicitLengths(w, b.Lengths); err != nil {
			return err
		}
	}

	if err := w.PutBits(4, uint32(b.Lookup)); err != nil {
		return err
	}
	if b.Lookup == LookupNone {
		return nil
	}

	vals := lookupVals(b.Lookup, b.Dimensions, n)
	bits := 1
	for _, q := range b.Quantlist[:vals] {
		if l := bitsFor(q); l > bits {
			bits = l
		}
	}

	if err := putVorbisFloat(w, b.Min); err != nil {
		return err
	}
	if err := putVorbisFloat(w, b.Delta); err != nil {
		return err
	}
	if err := w.PutBits(4, uint32(bits-1)); err != nil {
		return err
	}
	if err := w.PutBits(1, boolBit(b.SeqP)); err != nil {
		return err
	}
	for _, q := range b.Quantlist[:vals] {
		if err := w.PutBits(bits, uint32(q)); err != nil {
			return err
		}
	}
	return nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// bitsFor returns ilog(n) — the number of bits needed to hold n (n >= 0).
func bitsFor(n int) int {
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}

// isOrdered reports whether lengths is non-decreasing and every entry is
// used — the condition under which the ordered run-length encoding
// (spec.md 4.3) applies.
func isOrdered(lengths []uint8) bool {
	for i := 1; i < len(lengths); i++ {
		if lengths[i-1] == 0 || lengths[i] < lengths[i-1] {
			return false
		}
	}
	return len(lengths) == 0 || lengths[0] != 0
}

// writeOrderedLengths emits the run-length form: an initial length, then for
// each increasing length the count of entries sharing it.
func writeOrderedLengths(w *bitio.Writer, lengths []uint8) error {
	n := len(lengths)
	if n == 0 {
		return nil
	}
	curLen := int(lengths[0])
	if err := w.PutBits(5, uint32(curLen-1)); err != nil {
		return err
	}
	i := 0
	for i < n {
		j := 0
		for j+i < n && int(lengths[j+i]) == curLen {
			j++
		}
		if err := w.PutBits(bitsFor(n-i), uint32(j)); err != nil {
			return err
		}
		i += j
		curLen++
	}
	return nil
}

// writeExplicitLengths emits one length per entry, optionally gated by a
// "sparse" presence bit when some entries are unused.
func writeExplicitLengths(w *bitio.Writer, lengths []uint8) error {
	sparse := false
	for _, l := range lengths {
		if l == 0 {
			sparse = true
			break
		}
	}
	if err := w.PutBits(1, boolBit(sparse)); err != nil {
		return err
	}
	for _, l := range lengths {
		if sparse {
			if err := w.PutBits(1, boolBit(l != 0)); err != nil {
				return err
			}
		}
		if l != 0 {
			if err := w.PutBits(5, uint32(l-1)); err != nil {
				return err
			}
		}
	}
	return nil
}

// putVorbisFloat writes f in Vorbis's unique 32-bit float representation
// (spec.md 6): sign bit 31, biased exponent in bits 21-30, 21-bit mantissa.
func putVorbisFloat(w *bitio.Writer, f float32) error {
	return w.PutU32(EncodeVorbisFloat(f))
}

// EncodeVorbisFloat packs f into Vorbis's 32-bit float encoding:
// mantissa = ldexp(frexp(f), 20) truncated to int, exponent = exp+788-20,
// sign in bit 31, exponent in bits 21-30, mantissa in bits 0-20.
func EncodeVorbisFloat(f float32) uint32 {
	frac, exp := math.Frexp(float64(f))
	mant := int32(math.Ldexp(frac, 20))
	exp += 788 - 20

	var res uint32
	if mant < 0 {
		res |= 1 << 31
		mant = -mant
	}
	res |= uint32(mant) | (uint32(exp) << 21)
	return res
}
