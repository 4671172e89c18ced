package residue

import (
	"testing"

	"github.com/vorbisenc/vorbisenc/bitio"
	"github.com/vorbisenc/vorbisenc/internal/tables"
)

func TestEncodeClassificationNonexpansion(t *testing.T) {
	cb, err := tables.BuildCodebooks()
	if err != nil {
		t.Fatal(err)
	}
	tmpl := tables.ResidueClassBook(cb)
	coder := NewCoder(tmpl, cb.Books, 1)

	const realCh = 1
	const samples = 64
	coeffs := [][]float64{make([]float64, samples)}
	for i := range coeffs[0] {
		coeffs[0][i] = 0.01 * float64(i%5)
	}

	buf := make([]byte, 4096)
	w := &bitio.Writer{}
	w.Init(buf)
	if err := coder.Encode(w, coeffs, realCh, 0, samples); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if w.BitsWritten()%8 != 0 {
		t.Fatalf("packet not byte-aligned after flush: %d bits", w.BitsWritten())
	}

	ps := tmpl.PartitionSize
	nPartitions := samples / ps
	C := len(tmpl.Classes)
	for p := 0; p < nPartitions; p++ {
		class := coder.classify(coeffs, realCh, p*ps, ps)
		if class > C-1 {
			t.Fatalf("partition %d classified as %d, want <= %d", p, class, C-1)
		}
		if class < C-1 {
			var peaks float64
			for k := 0; k < ps; k++ {
				v := coeffs[0][p*ps+k]
				if v < 0 {
					v = -v
				}
				if v > peaks {
					peaks = v
				}
			}
			if peaks >= coder.maxes[class][0] {
				t.Fatalf("partition %d: peak %v not below maxes[%d] = %v", p, peaks, class, coder.maxes[class][0])
			}
		}
	}
}

func TestEncodeBufferExhausted(t *testing.T) {
	cb, err := tables.BuildCodebooks()
	if err != nil {
		t.Fatal(err)
	}
	tmpl := tables.ResidueClassBook(cb)
	coder := NewCoder(tmpl, cb.Books, 1)

	coeffs := [][]float64{make([]float64, 64)}
	buf := make([]byte, 1) // far too small
	w := &bitio.Writer{}
	w.Init(buf)
	if err := coder.Encode(w, coeffs, 1, 0, 64); err == nil {
		t.Fatalf("expected buffer-exhaustion error with a 1-byte buffer")
	}
}
