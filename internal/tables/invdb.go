package tables

import "math"

// InverseDBSize is the number of entries in the floor-1 inverse-dB table
// (spec.md 4.7/4.8): one per representable Y-bin before multiplier scaling.
const InverseDBSize = 256

// InverseDB maps a floor-1 Y-bin index to a linear magnitude. The real
// Vorbis tables are tuned, hand-measured constants (out of scope per
// spec.md 1); this table is a self-consistent replacement spanning the same
// -140dB..0dB range with even spacing, which is all floor_fit/floor_encode
// require: monotonic increase so "smallest j such that InverseDB[j] >
// target" is well defined.
var InverseDB [InverseDBSize]float64

func init() {
	const minDB = -140.0
	const maxDB = 0.0
	for j := 0; j < InverseDBSize; j++ {
		db := minDB + float64(j)*(maxDB-minDB)/float64(InverseDBSize-1)
		InverseDB[j] = math.Pow(10, db/20.0)
	}
}
