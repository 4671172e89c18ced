// Package setup assembles the static per-encoder configuration — codebook
// instances, floor and residue templates, channel mappings, and modes —
// from a channel count and quality, and serializes them into the three
// Vorbis header packets (identification, comment, setup).
//
// Grounded on the original encoder's create_residues / create_floors /
// create_mappings / create_vorbis_context and put_main_header
// (libavcodec/vorbisenc.c): one long-block and one short-block mapping,
// one coupling step for stereo, matching spec.md's Non-goal restricting
// this module to mono/stereo and a single coupling step.
package setup

import (
	"github.com/pkg/errors"
	"github.com/vorbisenc/vorbisenc/internal/tables"
)

// Log2ShortBlock and Log2LongBlock are the fixed block-size exponents
// spec.md 3 mandates (short=8, long=11): block sizes 256 and 2048 samples.
const (
	Log2ShortBlock = 8
	Log2LongBlock  = 11
)

// CouplingStep names one magnitude/angle channel pair (spec.md 3).
type CouplingStep struct {
	Magnitude, Angle int
}

// Mapping binds channels to submaps and floor/residue indices, plus any
// coupling steps.
type Mapping struct {
	ChannelSubmap []int // per channel, submap index
	SubmapFloor   []int
	SubmapResidue []int
	Coupling      []CouplingStep
}

// Mode is a (blockflag, mapping index) pair (spec.md 3).
type Mode struct {
	BlockFlag int // 0 = short, 1 = long
	Mapping   int
}

// Setup is the complete static configuration built once at encoder
// initialization.
type Setup struct {
	Channels   int
	SampleRate int
	Quality    float64 // already squared per spec.md 9

	Codebooks  *tables.Codebooks
	LongFloor  tables.FloorTemplate
	ShortFloor tables.FloorTemplate
	Residue    tables.ResidueTemplate

	Mappings []Mapping
	Modes    []Mode // Modes[0] = short, Modes[1] = long
}

// ErrInvalidChannels is returned by Build for channel counts outside 1..2,
// matching spec.md 9's "multi-channel mapping" open question resolution.
var ErrInvalidChannels = errors.New("setup: channels must be 1 or 2")

// Build assembles a Setup for the given channel count, sample rate, and
// normalized quality in (0,10].
func Build(channels, sampleRate int, quality float64) (*Setup, error) {
	if channels < 1 || channels > 2 {
		return nil, ErrInvalidChannels
	}

	cb, err := tables.BuildCodebooks()
	if err != nil {
		return nil, errors.Wrap(err, "setup: building codebooks")
	}

	s := &Setup{
		Channels:   channels,
		SampleRate: sampleRate,
		Quality:    quality * quality,
		Codebooks:  cb,
		LongFloor:  tables.LongFloorTemplate(cb),
		ShortFloor: tables.ShortFloorTemplate(cb),
		Residue:    tables.ResidueClassBook(cb),
	}

	longMapping := Mapping{
		ChannelSubmap: make([]int, channels),
		SubmapFloor:   []int{1}, // index into the serialized {ShortFloor, LongFloor} list
		SubmapResidue: []int{0},
	}
	shortMapping := Mapping{
		ChannelSubmap: make([]int, channels),
		SubmapFloor:   []int{0},
		SubmapResidue: []int{0},
	}
	if channels == 2 {
		longMapping.Coupling = []CouplingStep{{Magnitude: 0, Angle: 1}}
		shortMapping.Coupling = []CouplingStep{{Magnitude: 0, Angle: 1}}
	}
	s.Mappings = []Mapping{shortMapping, longMapping}
	s.Modes = []Mode{
		{BlockFlag: 0, Mapping: 0},
		{BlockFlag: 1, Mapping: 1},
	}
	return s, nil
}

// FloorForBlock returns the floor template for a short (blockFlag==0) or
// long (blockFlag==1) block.
func (s *Setup) FloorForBlock(blockFlag int) tables.FloorTemplate {
	if blockFlag == 0 {
		return s.ShortFloor
	}
	return s.LongFloor
}
