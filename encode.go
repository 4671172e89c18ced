package vorbisenc

import (
	"github.com/pkg/errors"
	"github.com/vorbisenc/vorbisenc/bitio"
	"github.com/vorbisenc/vorbisenc/floor1"
	"github.com/vorbisenc/vorbisenc/setup"
	"github.com/vorbisenc/vorbisenc/transform"
	"github.com/vorbisenc/vorbisenc/util"
)

// ErrFrameChannels is returned by Encode when a frame's channel count does
// not match Config.Channels.
var ErrFrameChannels = errors.New("vorbisenc: frame channel count mismatch")

// floorFloor is the smallest magnitude a rendered floor curve may divide by
// before flattening a coefficient, guarding the tail of a block past the
// floor curve's last covered sample.
const floorFloor = 1e-9

// Encode submits one chunk of planar float32 samples and returns at most one
// finished audio packet (spec.md 4.10). Because the encoder needs a full
// long block's worth of lookahead to decide between a long or short window,
// a call may consume the frame and still return (nil, nil): the caller
// should keep feeding frames (or, once the input is exhausted, call Encode
// repeatedly with frame == nil to drain) until a nil, nil return with no
// pending samples signals the stream is fully flushed.
//
// Passing frame == nil puts the encoder into draining mode: remaining
// buffered samples are zero-padded up to one final block, whose Packet
// carries the pad count in SkipSamples.
func (e *Encoder) Encode(frame [][]float32) (*Packet, error) {
	if e.closed {
		return nil, ErrClosed
	}

	if frame != nil {
		if err := e.submit(frame); err != nil {
			return nil, err
		}
	} else {
		e.flushing = true
	}

	avail := 0
	if len(e.pending) > 0 {
		avail = len(e.pending[0])
	}

	padded := 0
	if avail < e.longHalf {
		if !e.flushing || avail == 0 {
			return nil, nil
		}
		padded = e.longHalf - avail
		for ch := range e.pending {
			e.pending[ch] = append(e.pending[ch], make([]float64, padded)...)
		}
	}

	pkt, err := e.emitBlock(padded)
	if err != nil && errors.Cause(err) == bitio.ErrExhausted {
		e.log.Warn("vorbisenc: packet buffer exhausted", "err", err)
		return nil, errors.Wrap(ErrBufferExhausted, "vorbisenc: writing packet")
	}
	return pkt, err
}

func (e *Encoder) submit(frame [][]float32) error {
	if len(frame) != e.cfg.Channels {
		return ErrFrameChannels
	}
	n := 0
	for ch, samples := range frame {
		conv := make([]float64, len(samples))
		for i, s := range samples {
			conv[i] = float64(s)
		}
		e.pending[ch] = append(e.pending[ch], conv...)
		n = len(samples)
	}
	e.samplesSubmitted += int64(n)
	return nil
}

// tail returns the last n elements of buf, left-padding with zeros if buf is
// shorter (only possible transiently before the history buffer fills).
func tail(buf []float64, n int) []float64 {
	if len(buf) >= n {
		return buf[len(buf)-n:]
	}
	out := make([]float64, n)
	copy(out[n-len(buf):], buf)
	return out
}

// emitBlock runs the full per-block pipeline (spec.md 4.10): transient
// decision, windowing, forward MDCT, floor fit/encode/render, stereo
// coupling, residue coding, and packet assembly. padUsed is the number of
// zero-padding samples submit's caller stitched onto the tail of pending
// this call (0 outside of a final drain), surfaced to the caller as
// Packet.SkipSamples once the buffer empties.
func (e *Encoder) emitBlock(padUsed int) (*Packet, error) {
	channels := e.cfg.Channels

	lookahead := make([][]float64, channels)
	for ch := 0; ch < channels; ch++ {
		hist := tail(e.saved[ch], e.longHalf)
		lookahead[ch] = append(append([]float64(nil), hist...), e.pending[ch][:e.longHalf]...)
	}
	short := e.detector.IsShort(lookahead, e.numTransient)

	curFlag, curHalf := 1, e.longHalf
	if short {
		curFlag, curHalf = 0, e.shortHalf
	}

	prevFlag := e.prevFlag
	prevHalf := minInt(curHalf, halfSizeFor(prevFlag, e.longHalf, e.shortHalf))
	// No forward lookahead beyond this block's own decision is kept, so the
	// trailing neighbor is modeled as this block's own half-size (a
	// documented simplification — see DESIGN.md).
	nextHalf := curHalf

	log2Block := setup.Log2ShortBlock
	if curFlag == 1 {
		log2Block = setup.Log2LongBlock
	}

	coeffs := make([][]float64, channels)
	for ch := 0; ch < channels; ch++ {
		hist := tail(e.saved[ch], curHalf)
		chunk := e.pending[ch][:curHalf]
		raw := append(append([]float64(nil), hist...), chunk...)
		windowed := transform.Window(raw, curHalf, prevHalf, nextHalf, log2Block)
		coeffs[ch] = transform.MDCT(windowed)
	}

	tmpl := e.setup.FloorForBlock(curFlag)
	residual := make([][]float64, channels)
	posts := make([][]int, channels)
	for ch := 0; ch < channels; ch++ {
		posts[ch] = floor1.Fit(coeffs[ch], tmpl, e.setup.Quality)
		curve := floor1.Render(posts[ch], tmpl, curHalf)
		residual[ch] = make([]float64, curHalf)
		for i, c := range coeffs[ch] {
			f := curve[i]
			if f < floorFloor {
				f = floorFloor
			}
			residual[ch][i] = c / f
		}
	}

	mapping := e.setup.Mappings[curFlag]
	if channels == 2 && len(mapping.Coupling) > 0 {
		couple(residual[0], residual[1])
	}

	buf := make([]byte, packetBudget)
	w := &bitio.Writer{}
	w.Init(buf)

	if err := w.PutBits(1, 0); err != nil { // audio packet marker
		return nil, errors.Wrap(err, "vorbisenc: writing packet header")
	}
	modeBits := util.Ilog(len(e.setup.Modes) - 1)
	if err := w.PutBits(modeBits, uint32(curFlag)); err != nil {
		return nil, errors.Wrap(err, "vorbisenc: writing mode number")
	}
	if curFlag == 1 {
		if err := w.PutBits(1, uint32(prevFlag)); err != nil {
			return nil, err
		}
		if err := w.PutBits(1, uint32(curFlag)); err != nil {
			return nil, err
		}
	}

	for ch := 0; ch < channels; ch++ {
		if err := floor1.Encode(w, posts[ch], tmpl, e.setup.Codebooks.Books); err != nil {
			return nil, errors.Wrap(err, "vorbisenc: encoding floor")
		}
	}
	if err := e.coder.Encode(w, residual, channels, 0, channels*curHalf); err != nil {
		return nil, errors.Wrap(err, "vorbisenc: encoding residue")
	}
	w.Flush()

	pkt := &Packet{
		Data:     append([]byte(nil), w.Bytes()...),
		PTS:      e.samplesEmitted,
		Duration: int64(curHalf),
	}
	e.samplesEmitted += int64(curHalf)

	for ch := 0; ch < channels; ch++ {
		e.saved[ch] = tail(append(e.saved[ch], e.pending[ch][:curHalf]...), e.longHalf)
		e.pending[ch] = e.pending[ch][curHalf:]
	}
	e.prevFlag = curFlag

	if e.flushing && len(e.pending[0]) == 0 {
		pkt.SkipSamples = padUsed
	}
	return pkt, nil
}

// couple replaces a coupled channel pair's per-sample residuals with the
// Vorbis lossless polar (magnitude/angle) transform of spec.md 4.10 step 11,
// grounded on the original encoder's channel coupling
// (libavcodec/vorbisenc.c's couple_residue-equivalent step): the angle
// channel is first expressed relative to the magnitude channel, sign-flipped
// whenever the magnitude channel is positive, and the magnitude channel is
// only overwritten by the pre-transform angle value when the resulting angle
// went negative.
func couple(mag, angle []float64) {
	for i := range mag {
		a0 := angle[i]
		angle[i] -= mag[i]
		if mag[i] > 0 {
			angle[i] = -angle[i]
		}
		if angle[i] < 0 {
			mag[i] = a0
		}
	}
}
