package codebook

import (
	"testing"

	"github.com/vorbisenc/vorbisenc/bitio"
)

// headerBitReader mirrors bitio.Writer's LSB-first convention for test-only
// verification of WriteHeader's emitted layout.
type headerBitReader struct {
	buf   []byte
	pos   int
}

func (r *headerBitReader) read(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		byteIdx := r.pos / 8
		bitIdx := uint(r.pos % 8)
		bit := (r.buf[byteIdx] >> bitIdx) & 1
		v |= uint32(bit) << uint(i)
		r.pos++
	}
	return v
}

func TestWriteHeaderExplicitLengths(t *testing.T) {
	b := &Book{
		Dimensions: 1,
		Lengths:    []uint8{2, 0, 3, 2},
		Lookup:     LookupNone,
	}
	if err := b.Ready(); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 64)
	w := &bitio.Writer{}
	w.Init(buf)
	if err := b.WriteHeader(w); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	r := &headerBitReader{buf: w.Bytes()}
	if got := r.read(24); got != magic {
		t.Fatalf("magic = %x, want %x", got, magic)
	}
	if got := r.read(16); got != 1 {
		t.Fatalf("dimensions = %d, want 1", got)
	}
	if got := r.read(24); got != 4 {
		t.Fatalf("entries = %d, want 4", got)
	}
	if got := r.read(1); got != 0 {
		t.Fatalf("ordered flag = %d, want 0 (sparse lengths present)", got)
	}
	if got := r.read(1); got != 1 {
		t.Fatalf("sparse flag = %d, want 1", got)
	}
	// entry 0: used, length 2 -> encoded as 1
	if got := r.read(1); got != 1 {
		t.Fatalf("entry 0 used flag = %d, want 1", got)
	}
	if got := r.read(5); got != 1 {
		t.Fatalf("entry 0 length-1 = %d, want 1", got)
	}
	// entry 1: unused
	if got := r.read(1); got != 0 {
		t.Fatalf("entry 1 used flag = %d, want 0", got)
	}
	// entry 2: used, length 3 -> encoded as 2
	if got := r.read(1); got != 1 {
		t.Fatalf("entry 2 used flag = %d, want 1", got)
	}
	if got := r.read(5); got != 2 {
		t.Fatalf("entry 2 length-1 = %d, want 2", got)
	}
	// entry 3: used, length 2 -> encoded as 1
	if got := r.read(1); got != 1 {
		t.Fatalf("entry 3 used flag = %d, want 1", got)
	}
	if got := r.read(5); got != 1 {
		t.Fatalf("entry 3 length-1 = %d, want 1", got)
	}
	if got := r.read(4); got != uint32(LookupNone) {
		t.Fatalf("lookup type = %d, want %d", got, LookupNone)
	}
}

func TestWriteHeaderOrderedLengths(t *testing.T) {
	b := &Book{
		Dimensions: 0,
		Lengths:    []uint8{1, 2, 3, 3},
		Lookup:     LookupNone,
	}
	if err := b.Ready(); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 64)
	w := &bitio.Writer{}
	w.Init(buf)
	if err := b.WriteHeader(w); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	r := &headerBitReader{buf: w.Bytes()}
	r.read(24) // magic
	r.read(16) // dimensions
	r.read(24) // entries
	if got := r.read(1); got != 1 {
		t.Fatalf("ordered flag = %d, want 1", got)
	}
	if got := r.read(5); got != 0 {
		t.Fatalf("initial length-1 = %d, want 0 (length 1)", got)
	}
	// run of length 1: 1 entry
	if got := r.read(bitsFor(4)); got != 1 {
		t.Fatalf("run(len=1) count = %d, want 1", got)
	}
	// run of length 2: 1 entry, out of remaining 3
	if got := r.read(bitsFor(3)); got != 1 {
		t.Fatalf("run(len=2) count = %d, want 1", got)
	}
	// run of length 3: 2 entries, out of remaining 2
	if got := r.read(bitsFor(2)); got != 2 {
		t.Fatalf("run(len=3) count = %d, want 2", got)
	}
}

func TestWriteHeaderVQMetadata(t *testing.T) {
	quant := []int{0, 1, 2}
	lengths := make([]uint8, 9)
	for i := range lengths {
		lengths[i] = 4
	}
	b := &Book{
		Dimensions: 2,
		Lengths:    lengths,
		Lookup:     LookupLattice,
		Min:        -1.0,
		Delta:      1.0,
		SeqP:       false,
		Quantlist:  quant,
	}
	if err := b.Ready(); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 128)
	w := &bitio.Writer{}
	w.Init(buf)
	if err := b.WriteHeader(w); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	r := &headerBitReader{buf: w.Bytes()}
	r.read(24) // magic
	r.read(16) // dimensions
	r.read(24) // entries
	r.read(1)  // ordered flag (all length 4 -> ordered)
	r.read(5)  // initial length-1
	r.read(bitsFor(9)) // run count

	if got := r.read(4); got != uint32(LookupLattice) {
		t.Fatalf("lookup type = %d, want %d", got, LookupLattice)
	}
	minBits := r.read(32)
	if minBits != EncodeVorbisFloat(-1.0) {
		t.Errorf("min bits = %x, want %x", minBits, EncodeVorbisFloat(-1.0))
	}
	deltaBits := r.read(32)
	if deltaBits != EncodeVorbisFloat(1.0) {
		t.Errorf("delta bits = %x, want %x", deltaBits, EncodeVorbisFloat(1.0))
	}
	bitsMinus1 := r.read(4)
	if bitsMinus1+1 < 2 {
		t.Errorf("quant value bit width too small: %d", bitsMinus1+1)
	}
	seqP := r.read(1)
	if seqP != 0 {
		t.Errorf("seq_p = %d, want 0", seqP)
	}
}

func TestEncodeVorbisFloatZero(t *testing.T) {
	// frexp(0) yields mantissa 0 and exponent 0, so only the 788-20 bias
	// lands in the exponent field.
	want := uint32(788-20) << 21
	if got := EncodeVorbisFloat(0); got != want {
		t.Errorf("EncodeVorbisFloat(0) = %x, want %x", got, want)
	}
}
