package strain

import (
	"sort"

	"maniasr/internal/chart"
)

// BuildDensity computes C (local note density) and Ks (active-lane count),
// both sampled on the base corners (spec §4.9).
func BuildDensity(p chart.Prepared, base []float64, usage Usage) (c, ks []float64) {
	heads := make([]int, len(p.Notes))
	for i, note := range p.Notes {
		heads[i] = note.H
	}

	n := len(base)
	c = make([]float64, n)
	ks = make([]float64, n)

	for i, corner := range base {
		lo := corner - 500
		hi := corner + 500
		idxLo := sort.Search(len(heads), func(j int) bool { return float64(heads[j]) > lo })
		idxHi := sort.Search(len(heads), func(j int) bool { return float64(heads[j]) > hi })
		c[i] = float64(idxHi - idxLo)

		active := 0
		for lane := range usage.Active {
			if usage.Active[lane][i] {
				active++
			}
		}
		if active < 1 {
			active = 1
		}
		ks[i] = float64(active)
	}

	return c, ks
}
