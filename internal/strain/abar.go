package strain

import (
	"math"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
)

// BuildAbar computes Ā, the cross-lane coordination factor sampled on the
// A-corners (spec §4.7). It is distinct from the Anchor factor (P4): Abar
// feeds the final aggregation directly, Anchor feeds only Pbar.
func BuildAbar(p chart.Prepared, base, aGrid []float64, jbar Jbar, usage Usage) []float64 {
	a := make([]float64, len(aGrid))

	for si, s := range aGrid {
		i := corner.IndexAtOrBefore(base, s)
		lanes := corner.ActiveLanes(usage.Active, i)

		val := 1.0
		for j := 0; j+1 < len(lanes); j++ {
			c0, c1 := lanes[j], lanes[j+1]
			d0, d1 := jbar.Delta[c0][i], jbar.Delta[c1][i]
			maxDelta := math.Max(d0, d1)
			extra := maxDelta - 0.11
			if extra < 0 {
				extra = 0
			}
			diff := math.Abs(d0-d1) + 0.4*extra

			switch {
			case diff < 0.02:
				val *= math.Min(1, 0.75+0.5*maxDelta)
			case diff < 0.07:
				val *= math.Min(1, 0.65+5*diff+0.5*maxDelta)
			}
		}
		a[si] = val
	}

	return smoothing.Smooth(aGrid, a, 250, smoothing.Average)
}
