// Command vorbisencwav reads a PCM WAV file and writes a length-prefixed
// stream of Vorbis I packets: the extradata blob first, then one
// length-prefixed audio packet per block.
//
// Usage:
//
//	vorbisencwav -in input.wav -out stream.vorbis -quality 6
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vorbisenc/vorbisenc"
)

func main() {
	in := flag.String("in", "", "input WAV file path")
	out := flag.String("out", "", "output packet-stream file path")
	quality := flag.Float64("quality", 8, "encoder quality, (0,10]")
	logPath := flag.String("log", "", "log file path (stderr if unset)")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "vorbisencwav: -in and -out are required")
		os.Exit(2)
	}

	logger := newLogger(*logPath)
	if err := run(*in, *out, *quality, logger); err != nil {
		logger.Error("vorbisencwav: failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(path string) *slog.Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func run(inPath, outPath string, quality float64, logger *slog.Logger) error {
	inFile, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer inFile.Close()

	dec := wav.NewDecoder(inFile)
	if !dec.IsValidFile() {
		return fmt.Errorf("vorbisencwav: %s is not a valid WAV file", inPath)
	}
	dec.ReadInfo()

	cfg := vorbisenc.Config{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		Quality:    quality,
		Logger:     logger,
	}
	enc, err := vorbisenc.New(cfg)
	if err != nil {
		return err
	}
	defer enc.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if err := writeFramed(outFile, enc.Extradata()); err != nil {
		return err
	}

	const chunkFrames = 4096
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: cfg.Channels, SampleRate: cfg.SampleRate},
		Data:           make([]int, chunkFrames*cfg.Channels),
		SourceBitDepth: int(dec.BitDepth),
	}

	var packets int
	scale := float32(int(1) << (int(dec.BitDepth) - 1))
	for {
		buf.Data = buf.Data[:chunkFrames*cfg.Channels]
		if err := dec.PCMBuffer(buf); err != nil {
			return err
		}
		if len(buf.Data) == 0 {
			break
		}
		frame := deinterleave(buf.Data, cfg.Channels, scale)
		if err := drainPackets(enc, outFile, frame, &packets); err != nil {
			return err
		}
	}
	// Keep draining until the flush signal yields no more packets.
	for {
		pkt, err := enc.Encode(nil)
		if err != nil {
			return err
		}
		if pkt == nil {
			break
		}
		if err := writeFramed(outFile, pkt.Data); err != nil {
			return err
		}
		packets++
	}

	logger.Info("vorbisencwav: done", "in", inPath, "out", outPath, "packets", packets)
	return nil
}

func drainPackets(enc *vorbisenc.Encoder, w io.Writer, frame [][]float32, packets *int) error {
	pkt, err := enc.Encode(frame)
	if err != nil {
		return err
	}
	if pkt == nil {
		return nil
	}
	if err := writeFramed(w, pkt.Data); err != nil {
		return err
	}
	*packets++
	return nil
}

func deinterleave(data []int, channels int, scale float32) [][]float32 {
	n := len(data) / channels
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = float32(data[i*channels+ch]) / scale
		}
	}
	return out
}

func writeFramed(w io.Writer, data []byte) error {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(data)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
