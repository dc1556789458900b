package strain

import (
	"math"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
)

// BuildXbar computes X̄, the cross-column strain (spec §4.5). usage
// supplies the P3 boolean lane-active mask ("cols(i)") used by the
// deactivation check.
func BuildXbar(p chart.Prepared, base []float64, x float64, usage Usage) []float64 {
	n := len(base)
	k := p.K

	xCol := make([][]float64, k+1)
	fCol := make([][]float64, k+1)
	for col := 0; col <= k; col++ {
		xCol[col] = make([]float64, n)
		fCol[col] = make([]float64, n)
	}

	for col := 0; col <= k; col++ {
		notes := pairNotes(p, col)
		weight := chart.CrossWeight(k, col)

		for i := 0; i+1 < len(notes); i++ {
			h1, h2 := float64(notes[i].H), float64(notes[i+1].H)
			delt := 0.001 * (h2 - h1)

			denom := math.Max(x, delt)
			v := 0.16 / (denom * denom)

			iLeft := corner.IndexAtOrAfter(base, h1)
			iRight := corner.IndexAtOrAfter(base, h2)
			l := activeAt(usage, iLeft)
			r := activeAt(usage, iRight)

			if col == 0 || (!contains(l, col-1) && !contains(r, col-1)) || (!contains(l, col) && !contains(r, col)) {
				v *= 1 - weight
			}

			fDenom := math.Max(delt, math.Max(0.06, 0.75*x))
			f := 0.4/(fDenom*fDenom) - 80
			if f < 0 {
				f = 0
			}

			lo, hi := corner.Range(base, h1, h2)
			for idx := lo; idx < hi; idx++ {
				xCol[col][idx] = v
				fCol[col][idx] = f
			}
		}
	}

	xBase := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for col := 0; col <= k; col++ {
			w := chart.CrossWeight(k, col)
			sum += xCol[col][i] * w
		}
		for col := 0; col < k; col++ {
			w0 := chart.CrossWeight(k, col)
			w1 := chart.CrossWeight(k, col+1)
			prod := fCol[col][i] * w0 * fCol[col+1][i] * w1
			if prod > 0 {
				sum += math.Sqrt(prod)
			}
		}
		xBase[i] = sum
	}

	return smoothing.Smooth(base, xBase, 500, smoothing.Sum)
}

// pairNotes builds the "notes_in_pair" sequence for cross-column col
// (spec §4.5): lane 0 alone for col=0, lane K-1 alone for col=K, otherwise
// the head-time merge of lanes col-1 and col.
func pairNotes(p chart.Prepared, col int) []chart.Note {
	k := p.K
	switch {
	case col == 0:
		return p.ByLane[0]
	case col == k:
		return p.ByLane[k-1]
	default:
		return mergeByHead(p.ByLane[col-1], p.ByLane[col])
	}
}

func mergeByHead(a, b []chart.Note) []chart.Note {
	out := make([]chart.Note, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].H <= b[j].H {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// activeAt returns the lanes active at base-corner index i, per usage's
// boolean mask; an out-of-range index (the pair boundary lies at or past
// the grid's end) reports no active lanes.
func activeAt(usage Usage, i int) []int {
	if i < 0 || i >= len(usage.Active[0]) {
		return nil
	}
	return corner.ActiveLanes(usage.Active, i)
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
