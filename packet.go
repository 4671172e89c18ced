package vorbisenc

// Packet is one emitted audio packet plus the timestamp side-data a
// container writer needs (spec.md 9's supplemented PTS/duration
// accounting, and spec.md 4.10 step 13's skip-samples record).
type Packet struct {
	Data        []byte
	PTS         int64
	Duration    int64
	SkipSamples int // trailing padding samples at end of stream, 0 otherwise
}
