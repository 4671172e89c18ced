package tables

import "sort"

// FloorClass describes one floor-1 partition class: its point dimension,
// the number of subclass bits, the masterbook used to pack subclass
// selections when s > 0 (-1 if s == 0), and one book index per subclass
// (-1 = unused).
type FloorClass struct {
	Dim          int
	SubclassBits int
	Masterbook   int
	Books        []int // len == 1<<SubclassBits
}

// FloorTemplate is a fully precomputed floor-1 layout: the X-coordinate
// list (logical order, X[0]=0, X[1]=2^RangeBits), the neighbor table
// (Low[i]/High[i] for i>=2), the ascending-sort permutation, the
// partition-to-class assignment, and the class table itself.
//
// Grounded on spec.md 3/4.7: the X list is built the same way the
// reference encoder's setup code builds its partition template — by
// repeatedly bisecting the widest remaining gaps, so every inserted
// point's immediate left/right neighbors at insertion time trivially
// satisfy X[low] < X[i] < X[high] forever after.
type FloorTemplate struct {
	RangeBits  int
	Multiplier int
	X          []int
	Low        []int
	High       []int
	SortIdx    []int // SortIdx[k] = logical index of the k-th smallest X
	Partitions []int // per-partition class index
	Classes    []FloorClass
}

// buildBisectedX returns a logical-order X list (always starting with the
// two fixed points 0 and range) built by `levels` rounds of bisecting every
// existing adjacent gap in the current ascending order, plus the logical
// indices of the low/high neighbors recorded at the moment each point beyond
// index 1 was inserted.
func buildBisectedX(rangeBits, levels int) (x []int, low, high []int) {
	rng := 1 << uint(rangeBits)
	x = []int{0, rng}
	low = []int{0, 0}
	high = []int{0, 0}

	ascending := []int{0, rng}           // kept sorted as we go
	indexOf := map[int]int{0: 0, rng: 1} // X value -> logical index
	for l := 0; l < levels; l++ {
		type gap struct{ lo, hi int }
		var gaps []gap
		for i := 0; i+1 < len(ascending); i++ {
			gaps = append(gaps, gap{ascending[i], ascending[i+1]})
		}
		var inserted []int
		for _, g := range gaps {
			mid := (g.lo + g.hi) / 2
			if mid == g.lo || mid == g.hi {
				continue // gap too narrow to bisect further
			}
			indexOf[mid] = len(x)
			x = append(x, mid)
			low = append(low, indexOf[g.lo])
			high = append(high, indexOf[g.hi])
			inserted = append(inserted, mid)
		}
		ascending = append(ascending, inserted...)
		sort.Ints(ascending)
	}
	return x, low, high
}

// sortIndex returns the permutation that visits x in ascending order,
// expressed as logical indices (the floor-1 "sorted order" table used by
// floor_fit's averaging window).
func sortIndex(x []int) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	return idx
}

// NewFloorTemplate assembles a FloorTemplate for the given range/multiplier,
// bisection depth, and a repeating class-index pattern assigned one per
// partition point (partitions == points here since every class has Dim==1
// in this template set).
func NewFloorTemplate(rangeBits, multiplier, levels int, classes []FloorClass, classPattern []int) FloorTemplate {
	x, low, high := buildBisectedX(rangeBits, levels)
	nPartitions := len(x) - 2
	partitions := make([]int, nPartitions)
	for i := range partitions {
		partitions[i] = classPattern[i%len(classPattern)]
	}
	return FloorTemplate{
		RangeBits:  rangeBits,
		Multiplier: multiplier,
		X:          x,
		Low:        low,
		High:       high,
		SortIdx:    sortIndex(x),
		Partitions: partitions,
		Classes:    classes,
	}
}

// Range returns 255/Multiplier + 1, the Y-bin count (spec.md 4.8 step 1).
func (f FloorTemplate) Range() int { return 255/f.Multiplier + 1 }

// Values returns the total number of floor points (X[0], X[1], and one per
// partition).
func (f FloorTemplate) Values() int { return len(f.X) }
