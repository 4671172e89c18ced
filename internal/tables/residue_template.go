package tables

// ResidueClass is one residue type-2 classification: up to 8 pass-books
// (-1 = "skip this pass"), indexed by encode pass number.
type ResidueClass struct {
	PassBooks [8]int
}

// ResidueTemplate is a residue type-2 layout (spec.md 3/4.9): partition
// size, the classification table, and the shared classbook used to pack
// `classwords` successive partition classes into one codeword. The
// interleaved [begin,end) range itself depends on the block's sample count
// and channel count, so it is supplied by the caller at encode time rather
// than stored here.
type ResidueTemplate struct {
	PartitionSize int
	Classbook     int
	Classwords    int
	Classes       []ResidueClass
}

// NClasses returns C, the number of classifications.
func (r ResidueTemplate) NClasses() int { return len(r.Classes) }
