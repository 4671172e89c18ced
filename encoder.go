package vorbisenc

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/vorbisenc/vorbisenc/psy"
	"github.com/vorbisenc/vorbisenc/residue"
	"github.com/vorbisenc/vorbisenc/setup"
)

const vendorString = "vorbisenc"

// packetBudget is the initial packet buffer capacity (spec.md 4.10 step 8).
const packetBudget = 8192

// Encoder is a single-threaded, cooperative Vorbis I encoder. All state is
// owned exclusively by the instance; concurrent calls on one instance are
// undefined (spec.md 5).
type Encoder struct {
	cfg   Config
	setup *setup.Setup
	log   *slog.Logger

	longHalf, shortHalf int
	numTransient        int

	prevFlag int // previous block's blockflag; 0 = short, 1 = long

	pending [][]float64 // queued raw input not yet windowed, per channel
	saved   [][]float64 // previous-half context, per channel

	detector  *psy.Detector
	coder     *residue.Coder
	extradata []byte // precomputed identification+comment+setup packets

	flushing bool
	closed   bool

	samplesSubmitted int64
	samplesEmitted   int64
}

// New builds an Encoder for cfg, assembling codebooks, floor/residue
// templates, and per-channel DSP state.
func New(cfg Config) (*Encoder, error) {
	cfg = cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s, err := setup.Build(cfg.Channels, cfg.SampleRate, cfg.Quality)
	if err != nil {
		return nil, errors.Wrapf(ErrSetupInconsistent, "vorbisenc: assembling setup: %v", err)
	}

	e := &Encoder{
		cfg:          cfg,
		setup:        s,
		log:          cfg.Logger,
		longHalf:     1 << (setup.Log2LongBlock - 1),
		shortHalf:    1 << (setup.Log2ShortBlock - 1),
		prevFlag:     1,
		detector:     psy.NewDetector(cfg.Channels),
		coder:        residue.NewCoder(s.Residue, s.Codebooks.Books, cfg.Channels),
	}
	e.numTransient = e.longHalf / e.shortHalf

	e.pending = make([][]float64, cfg.Channels)
	e.saved = make([][]float64, cfg.Channels)
	for ch := 0; ch < cfg.Channels; ch++ {
		e.saved[ch] = make([]float64, e.longHalf)
	}

	e.extradata, err = s.Extradata(vendorString)
	if err != nil {
		return nil, errors.Wrap(err, "vorbisenc: serializing header packets")
	}

	e.log.Debug("vorbisenc: encoder initialized",
		"channels", cfg.Channels, "sample_rate", cfg.SampleRate, "quality", cfg.Quality)
	return e, nil
}

// Extradata returns the identification+comment+setup header packets,
// Xiph-laced per spec.md 6, precomputed once in New. Returns nil once the
// encoder has been closed.
func (e *Encoder) Extradata() []byte {
	if e.closed {
		return nil
	}
	return e.extradata
}

// Close releases the encoder. All owned buffers become unusable afterward.
func (e *Encoder) Close() error {
	e.closed = true
	e.pending = nil
	e.saved = nil
	return nil
}

func halfSizeFor(blockFlag, longHalf, shortHalf int) int {
	if blockFlag == 1 {
		return longHalf
	}
	return shortHalf
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
