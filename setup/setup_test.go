package setup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildRejectsBadChannelCount(t *testing.T) {
	if _, err := Build(0, 44100, 8); err != ErrInvalidChannels {
		t.Fatalf("Build(0, ...) = %v, want ErrInvalidChannels", err)
	}
	if _, err := Build(3, 44100, 8); err != ErrInvalidChannels {
		t.Fatalf("Build(3, ...) = %v, want ErrInvalidChannels", err)
	}
}

func TestBuildMonoAndStereo(t *testing.T) {
	for _, ch := range []int{1, 2} {
		s, err := Build(ch, 44100, 8)
		if err != nil {
			t.Fatalf("Build(%d, ...): %v", ch, err)
		}
		if s.Quality != 64 {
			t.Errorf("Quality = %v, want 8^2 = 64", s.Quality)
		}
		wantCoupling := ch == 2
		if (len(s.Mappings[1].Coupling) > 0) != wantCoupling {
			t.Errorf("channels=%d: coupling present = %v, want %v", ch, len(s.Mappings[1].Coupling) > 0, wantCoupling)
		}
	}
}

func TestExtradataLayout(t *testing.T) {
	s, err := Build(2, 48000, 8)
	if err != nil {
		t.Fatal(err)
	}
	data, err := s.Extradata("vorbisenc")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[0] != 0x02 {
		t.Fatalf("Extradata()[0] = %#x, want 0x02", data[0])
	}
}

func TestIdentificationByteAligned(t *testing.T) {
	s, err := Build(1, 44100, 8)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.WriteIdentification()
	if err != nil {
		t.Fatal(err)
	}
	if id[0] != 0x01 {
		t.Fatalf("identification magic = %#x, want 0x01", id[0])
	}
	if id[1] != 'v' {
		t.Fatalf("identification[1] = %c, want 'v'", id[1])
	}
}

func TestStereoMappingShape(t *testing.T) {
	s, err := Build(2, 44100, 8)
	if err != nil {
		t.Fatal(err)
	}
	want := Mapping{
		ChannelSubmap: []int{0, 0},
		SubmapFloor:   []int{1},
		SubmapResidue: []int{0},
		Coupling:      []CouplingStep{{Magnitude: 0, Angle: 1}},
	}
	if diff := cmp.Diff(want, s.Mappings[1]); diff != "" {
		t.Errorf("long mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupHeaderCodebookCount(t *testing.T) {
	s, err := Build(1, 44100, 8)
	if err != nil {
		t.Fatal(err)
	}
	setupPkt, err := s.WriteSetupHeader()
	if err != nil {
		t.Fatal(err)
	}
	if setupPkt[0] != 0x05 {
		t.Fatalf("setup magic = %#x, want 0x05", setupPkt[0])
	}
	// 0x05 and "vorbis" fill bytes 0..6; byte 7 holds the codebook count - 1.
	if got, want := int(setupPkt[7]), len(s.Codebooks.Books)-1; got != want {
		t.Fatalf("codebook count-1 = %d, want %d", got, want)
	}
}
