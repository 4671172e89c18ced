package setup

import (
	"github.com/pkg/errors"
	"github.com/vorbisenc/vorbisenc/bitio"
	"github.com/vorbisenc/vorbisenc/internal/tables"
	"github.com/vorbisenc/vorbisenc/util"
)

const noBook = 0xFF // sentinel for an absent (-1) book index in an 8-bit field

func putString(w *bitio.Writer, s string) error {
	for i := 0; i < len(s); i++ {
		if err := w.PutBits(8, uint32(s[i])); err != nil {
			return err
		}
	}
	return nil
}

func bookIdx(i int) uint32 {
	if i < 0 {
		return noBook
	}
	return uint32(i)
}

// WriteIdentification emits the identification header (spec.md 6): magic
// 0x01, "vorbis", 32-bit version=0, channel count, sample rate, three
// 32-bit zero bitrate fields, the fixed short/long log2 block sizes, and
// the framing bit.
func (s *Setup) WriteIdentification() ([]byte, error) {
	buf := make([]byte, 64)
	w := &bitio.Writer{}
	w.Init(buf)

	if err := w.PutBits(8, 0x01); err != nil {
		return nil, err
	}
	if err := putString(w, "vorbis"); err != nil {
		return nil, err
	}
	if err := w.PutU32(0); err != nil {
		return nil, err
	}
	if err := w.PutBits(8, uint32(s.Channels)); err != nil {
		return nil, err
	}
	if err := w.PutU32(uint32(s.SampleRate)); err != nil {
		return nil, err
	}
	for i := 0; i < 3; i++ {
		if err := w.PutU32(0); err != nil {
			return nil, err
		}
	}
	if err := w.PutBits(4, Log2ShortBlock); err != nil {
		return nil, err
	}
	if err := w.PutBits(4, Log2LongBlock); err != nil {
		return nil, err
	}
	if err := w.PutBits(1, 1); err != nil {
		return nil, err
	}
	w.Flush()
	return append([]byte(nil), w.Bytes()...), nil
}

// WriteComment emits the comment header: magic 0x03, "vorbis", a vendor
// string (spec.md 9's vendor-string open question, resolved here by
// emitting "vorbisenc" rather than a zero-length string), zero comments,
// and the framing bit.
func (s *Setup) WriteComment(vendor string) ([]byte, error) {
	buf := make([]byte, 64+len(vendor))
	w := &bitio.Writer{}
	w.Init(buf)

	if err := w.PutBits(8, 0x03); err != nil {
		return nil, err
	}
	if err := putString(w, "vorbis"); err != nil {
		return nil, err
	}
	if err := w.PutU32(uint32(len(vendor))); err != nil {
		return nil, err
	}
	if err := putString(w, vendor); err != nil {
		return nil, err
	}
	if err := w.PutU32(0); err != nil {
		return nil, err
	}
	if err := w.PutBits(1, 1); err != nil {
		return nil, err
	}
	w.Flush()
	return append([]byte(nil), w.Bytes()...), nil
}

// WriteSetupHeader emits the setup header: magic 0x05, "vorbis", every
// codebook, a zero-length time-domain transform list, every floor and
// residue and mapping and mode block, and the framing bit (spec.md 6).
//
// The floor/residue/mapping/mode block layouts beyond spec.md 4.3's
// codebook format are this module's own design (spec.md only specifies the
// outer packet envelope and leaves the inner per-component field widths to
// the implementation, since the real ones are tuned wire-format minutiae
// out of scope per spec.md 1) — see DESIGN.md.
func (s *Setup) WriteSetupHeader() ([]byte, error) {
	buf := make([]byte, 1<<20)
	w := &bitio.Writer{}
	w.Init(buf)

	if err := w.PutBits(8, 0x05); err != nil {
		return nil, err
	}
	if err := putString(w, "vorbis"); err != nil {
		return nil, err
	}

	books := s.Codebooks.Books
	if err := w.PutBits(8, uint32(len(books)-1)); err != nil {
		return nil, err
	}
	for _, b := range books {
		if err := b.WriteHeader(w); err != nil {
			return nil, errors.Wrap(err, "setup: writing codebook header")
		}
	}

	// time-domain transform count, always 0
	if err := w.PutBits(6, 0); err != nil {
		return nil, err
	}
	if err := w.PutBits(16, 0); err != nil {
		return nil, err
	}

	floors := []tables.FloorTemplate{s.ShortFloor, s.LongFloor}
	if err := w.PutBits(6, uint32(len(floors)-1)); err != nil {
		return nil, err
	}
	for _, f := range floors {
		if err := writeFloor(w, f); err != nil {
			return nil, err
		}
	}

	if err := w.PutBits(6, 0); err != nil { // 1 residue block total
		return nil, err
	}
	if err := writeResidue(w, s.Residue); err != nil {
		return nil, err
	}

	if err := w.PutBits(6, uint32(len(s.Mappings)-1)); err != nil {
		return nil, err
	}
	for _, m := range s.Mappings {
		if err := writeMapping(w, m); err != nil {
			return nil, err
		}
	}

	if err := w.PutBits(6, uint32(len(s.Modes)-1)); err != nil {
		return nil, err
	}
	for _, m := range s.Modes {
		if err := writeMode(w, m); err != nil {
			return nil, err
		}
	}

	if err := w.PutBits(1, 1); err != nil {
		return nil, err
	}
	w.Flush()
	return append([]byte(nil), w.Bytes()...), nil
}

func writeFloor(w *bitio.Writer, f tables.FloorTemplate) error {
	if err := w.PutBits(16, 1); err != nil { // floor type 1
		return err
	}
	if err := w.PutBits(8, uint32(f.RangeBits)); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(f.Multiplier)); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(len(f.Partitions))); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(len(f.Classes))); err != nil {
		return err
	}
	for _, c := range f.Classes {
		if err := w.PutBits(4, uint32(c.Dim-1)); err != nil {
			return err
		}
		if err := w.PutBits(3, uint32(c.SubclassBits)); err != nil {
			return err
		}
		if err := w.PutBits(8, bookIdx(c.Masterbook)); err != nil {
			return err
		}
		for _, b := range c.Books {
			if err := w.PutBits(8, bookIdx(b)); err != nil {
				return err
			}
		}
	}
	for _, p := range f.Partitions {
		if err := w.PutBits(8, uint32(p)); err != nil {
			return err
		}
	}
	for i := 2; i < len(f.X); i++ {
		if err := w.PutBits(16, uint32(f.X[i])); err != nil {
			return err
		}
		if err := w.PutBits(util.Ilog(len(f.X)-1), uint32(f.Low[i])); err != nil {
			return err
		}
		if err := w.PutBits(util.Ilog(len(f.X)-1), uint32(f.High[i])); err != nil {
			return err
		}
	}
	return nil
}

func writeResidue(w *bitio.Writer, r tables.ResidueTemplate) error {
	if err := w.PutBits(16, 2); err != nil { // residue type 2
		return err
	}
	if err := w.PutBits(8, uint32(r.PartitionSize)); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(len(r.Classes))); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(r.Classbook)); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(r.Classwords)); err != nil {
		return err
	}
	for _, c := range r.Classes {
		for _, b := range c.PassBooks {
			if err := w.PutBits(8, bookIdx(b)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMapping(w *bitio.Writer, m Mapping) error {
	if err := w.PutBits(8, 0); err != nil { // mapping type 0
		return err
	}
	if err := w.PutBits(8, uint32(len(m.SubmapFloor))); err != nil {
		return err
	}
	if err := w.PutBits(8, uint32(len(m.Coupling))); err != nil {
		return err
	}
	for _, c := range m.Coupling {
		if err := w.PutBits(8, uint32(c.Magnitude)); err != nil {
			return err
		}
		if err := w.PutBits(8, uint32(c.Angle)); err != nil {
			return err
		}
	}
	for i := range m.SubmapFloor {
		if err := w.PutBits(8, uint32(m.SubmapFloor[i])); err != nil {
			return err
		}
		if err := w.PutBits(8, uint32(m.SubmapResidue[i])); err != nil {
			return err
		}
	}
	for _, mux := range m.ChannelSubmap {
		if err := w.PutBits(8, uint32(mux)); err != nil {
			return err
		}
	}
	return nil
}

func writeMode(w *bitio.Writer, m Mode) error {
	if err := w.PutBits(1, uint32(m.BlockFlag)); err != nil {
		return err
	}
	if err := w.PutBits(16, 0); err != nil { // window type, always 0
		return err
	}
	if err := w.PutBits(16, 0); err != nil { // transform type, always 0
		return err
	}
	return w.PutBits(8, uint32(m.Mapping))
}

// Extradata concatenates the three header packets behind a 0x02 marker
// byte and Xiph-style lacing of the first two lengths (spec.md 6); the
// third length is inferred from the remainder.
func (s *Setup) Extradata(vendor string) ([]byte, error) {
	id, err := s.WriteIdentification()
	if err != nil {
		return nil, err
	}
	comment, err := s.WriteComment(vendor)
	if err != nil {
		return nil, err
	}
	setupPkt, err := s.WriteSetupHeader()
	if err != nil {
		return nil, err
	}

	out := []byte{0x02}
	out = append(out, xiphLace(len(id))...)
	out = append(out, xiphLace(len(comment))...)
	out = append(out, id...)
	out = append(out, comment...)
	out = append(out, setupPkt...)
	return out, nil
}

// xiphLace encodes length as floor(L/255) 0xFF bytes followed by L mod 255.
func xiphLace(length int) []byte {
	var out []byte
	for length >= 255 {
		out = append(out, 0xFF)
		length -= 255
	}
	return append(out, byte(length))
}
