// Package corner builds the irregular sample grid every strain signal is
// evaluated on (spec §3, §4.1 P2): a sorted set of "corner" timestamps
// concentrated around note events and the smoothing-window offsets that
// follow them, so piecewise-constant signals can be integrated exactly
// without walking a dense per-millisecond array.
package corner

import (
	"sort"

	"maniasr/internal/chart"
)

// Grids holds the three views of the corner set: base corners (G_B, used
// by every per-lane/per-pattern signal), A-corners (G_A, used by the
// coordination signal Abar), and the full corner set (G, used only for
// final aggregation).
type Grids struct {
	Base []float64
	A    []float64
	All  []float64
}

// Build constructs G_B, G_A and G from a prepared chart (spec §3).
func Build(p chart.Prepared) Grids {
	if len(p.Notes) == 0 {
		return Grids{}
	}

	// Taps carry no release time, so they contribute no tail seed — this
	// set is shared by both G_B and G_A; only the offset deltas differ.
	seeds := make([]float64, 0, 2*len(p.Notes)+2)
	seeds = append(seeds, 0, float64(p.T))
	for _, n := range p.Notes {
		seeds = append(seeds, float64(n.H))
		if n.T >= 0 {
			seeds = append(seeds, float64(n.T))
		}
	}
	hi := float64(p.T)

	var base []float64
	base = append(base, seeds...)
	base = append(base, offset(seeds, 501, 0, hi)...)
	base = append(base, offset(seeds, -499, 0, hi)...)
	base = append(base, offset(seeds, 1, 0, hi)...)
	base = dedupSorted(base)

	var a []float64
	a = append(a, seeds...)
	a = append(a, offset(seeds, 1000, 0, hi)...)
	a = append(a, offset(seeds, -1000, 0, hi)...)
	a = dedupSorted(a)

	var all []float64
	all = append(all, base...)
	all = append(all, a...)
	all = dedupSorted(all)

	return Grids{Base: base, A: a, All: all}
}

// offset adds delta to every seed and clamps the result into [lo, hi].
func offset(seeds []float64, delta, lo, hi float64) []float64 {
	out := make([]float64, len(seeds))
	for i, s := range seeds {
		v := s + delta
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}

func dedupSorted(vals []float64) []float64 {
	sort.Float64s(vals)
	out := vals[:0]
	for i, v := range vals {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// Range returns the half-open index range [lo, hi) of grid entries lying
// in [a, b), via binary search.
func Range(grid []float64, a, b float64) (int, int) {
	lo := sort.Search(len(grid), func(i int) bool { return grid[i] >= a })
	hi := sort.Search(len(grid), func(i int) bool { return grid[i] >= b })
	return lo, hi
}

// IndexAtOrAfter returns the smallest index i with grid[i] >= v ("just
// right of" v), or len(grid) if none.
func IndexAtOrAfter(grid []float64, v float64) int {
	return sort.Search(len(grid), func(i int) bool { return grid[i] >= v })
}

// IndexAtOrBefore returns the largest index i with grid[i] <= v ("just
// left of" v), clamped to 0.
func IndexAtOrBefore(grid []float64, v float64) int {
	i := IndexAtOrAfter(grid, v)
	if i < len(grid) && grid[i] == v {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}

// ExactIndex returns the index of the grid entry equal to v, or -1.
func ExactIndex(grid []float64, v float64) int {
	i := sort.Search(len(grid), func(i int) bool { return grid[i] >= v })
	if i < len(grid) && grid[i] == v {
		return i
	}
	return -1
}

// ActiveLanes reports, for base-corner index i, which lanes are "active"
// there according to the boolean usage mask U (spec §4.2).
func ActiveLanes(active [][]bool, i int) []int {
	var cols []int
	for k := range active {
		if active[k][i] {
			cols = append(cols, k)
		}
	}
	return cols
}
