// Package util provides small numeric helpers shared across the encoder's
// packages (floor1, setup, and the root vorbisenc package).
package util

// Ilog returns floor(log2(n))+1 for n >= 1, and 0 for n <= 0.
// This is the "ilog" primitive used throughout the Vorbis bitstream spec
// for sizing fixed-width fields (partition counts, floor ranges, mode index).
func Ilog[T ~int | ~uint | ~uint32 | ~int64](n T) int {
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}
