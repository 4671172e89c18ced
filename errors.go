// Package vorbisenc is a native, cgo-free encoder for the Vorbis I audio
// codec: planar float32 frames in, an extradata blob (identification +
// comment + setup header packets) plus a stream of audio packets out.
//
// The DSP and bitstream internals live in focused sub-packages (bitio,
// codebook, setup, psy, transform, floor1, residue); this package wires
// them into the public Encoder and the per-packet orchestrator state
// machine.
package vorbisenc

import "github.com/pkg/errors"

// Error sentinels, one per spec.md 7 taxonomy class. Wrapped errors still
// satisfy errors.Is against these via github.com/pkg/errors.
var (
	// ErrOutOfMemory names the allocation-failure class. Neither New nor
	// Encode returns it.
	ErrOutOfMemory = errors.New("vorbisenc: allocation failed")

	// ErrBufferExhausted is returned (wrapped) by Encode when the
	// fixed-capacity packet buffer ran out of room mid-packet. Retriable at
	// the call boundary: the pending samples are not consumed, so the next
	// Encode call encodes the same block again. The transient detector's
	// filter and variance history, and any flush padding already appended
	// to the pending buffer, are not rolled back (a retried final block
	// reports SkipSamples 0).
	ErrBufferExhausted = errors.New("vorbisenc: output buffer exhausted")

	// ErrInvalidChannels is returned by New for channel counts outside 1..2.
	ErrInvalidChannels = errors.New("vorbisenc: channels must be 1 or 2")

	// ErrInvalidQuality is returned by New when Quality is outside (0,10].
	ErrInvalidQuality = errors.New("vorbisenc: quality must be in (0,10]")

	// ErrSetupInconsistent marks a programming error in the compile-time
	// codebook/floor/residue templates (spec.md 7's BUG class) — it should
	// never occur for the templates this module ships.
	ErrSetupInconsistent = errors.New("vorbisenc: internal setup inconsistency (bug)")

	// ErrClosed is returned by Encode after Close (Extradata returns nil
	// instead).
	ErrClosed = errors.New("vorbisenc: encoder closed")
)
