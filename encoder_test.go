package vorbisenc

import (
	"math"
	"testing"
)

func sineFrame(channels, n int, freq, sampleRate float64) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
		for i := range out[ch] {
			out[ch][i] = float32(0.25 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
		}
	}
	return out
}

func silentFrame(channels, n int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Channels: 3, SampleRate: 44100}); err != ErrInvalidChannels {
		t.Fatalf("err = %v, want ErrInvalidChannels", err)
	}
	if _, err := New(Config{Channels: 2, SampleRate: 44100, Quality: 11}); err != ErrInvalidQuality {
		t.Fatalf("err = %v, want ErrInvalidQuality", err)
	}
}

func TestExtradataLayout(t *testing.T) {
	enc, err := New(Config{Channels: 1, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	data := enc.Extradata()
	if len(data) == 0 || data[0] != 0x02 {
		t.Fatalf("Extradata()[0] = %#x, want 0x02", data[0])
	}
}

func TestMonoSilenceProducesPackets(t *testing.T) {
	enc, err := New(Config{Channels: 1, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	var packets int
	for i := 0; i < 8; i++ {
		pkt, err := enc.Encode(silentFrame(1, enc.longHalf))
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if pkt != nil {
			packets++
		}
	}
	if packets == 0 {
		t.Fatal("expected at least one packet from steady silent input")
	}
}

func TestStereoSinePTSIsMonotonic(t *testing.T) {
	enc, err := New(Config{Channels: 2, SampleRate: 44100, Quality: 6})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	var lastPTS int64 = -1
	for i := 0; i < 12; i++ {
		frame := sineFrame(2, enc.longHalf, 440, 44100)
		pkt, err := enc.Encode(frame)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if pkt == nil {
			continue
		}
		if pkt.PTS <= lastPTS {
			t.Fatalf("PTS did not advance: got %d after %d", pkt.PTS, lastPTS)
		}
		lastPTS = pkt.PTS
		if len(pkt.Data) == 0 {
			t.Fatal("packet has no data")
		}
	}
	if lastPTS < 0 {
		t.Fatal("no packets were produced")
	}
}

func TestEncodeRejectsFrameChannelMismatch(t *testing.T) {
	enc, err := New(Config{Channels: 2, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	if _, err := enc.Encode(silentFrame(1, enc.longHalf)); err != ErrFrameChannels {
		t.Fatalf("err = %v, want ErrFrameChannels", err)
	}
}

func TestClosedEncoderRejectsCalls(t *testing.T) {
	enc, err := New(Config{Channels: 1, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Encode(silentFrame(1, 64)); err != ErrClosed {
		t.Fatalf("Encode after Close: err = %v, want ErrClosed", err)
	}
	if data := enc.Extradata(); data != nil {
		t.Fatalf("Extradata after Close = %v, want nil", data)
	}
}

func TestFlushDrainsPartialFrameWithSkipSamples(t *testing.T) {
	enc, err := New(Config{Channels: 1, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	// Less than one long block's worth of lookahead: no packet yet.
	pkt, err := enc.Encode(silentFrame(1, enc.longHalf/4))
	if err != nil {
		t.Fatal(err)
	}
	if pkt != nil {
		t.Fatal("expected nil packet before enough lookahead has accumulated")
	}

	pkt, err = enc.Encode(nil) // flush
	if err != nil {
		t.Fatal(err)
	}
	if pkt == nil {
		t.Fatal("expected a final packet once flushing")
	}
	if pkt.SkipSamples <= 0 {
		t.Fatalf("SkipSamples = %d, want > 0 after padding a short final block", pkt.SkipSamples)
	}

	pkt, err = enc.Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if pkt != nil {
		t.Fatal("expected no further packets once fully drained")
	}
}
