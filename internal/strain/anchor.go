package strain

import (
	"math"
	"sort"
)

// Anchor computes the P4 imbalance factor over the base corners, from the
// fuzzy lane-usage signal U400. It feeds into Pbar (P7) only — it is not
// the coordination factor Ā used in final aggregation (that's Abar, P8).
func Anchor(usage Usage, n int) []float64 {
	k := len(usage.Fuzzy)
	out := make([]float64, n)
	vals := make([]float64, 0, k)

	for i := 0; i < n; i++ {
		vals = vals[:0]
		for lane := 0; lane < k; lane++ {
			if v := usage.Fuzzy[lane][i]; v > 0 {
				vals = append(vals, v)
			}
		}
		if len(vals) <= 1 {
			out[i] = 0
			continue
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(vals)))

		var walk, max float64
		for j, v := range vals {
			max += v
			if j+1 < len(vals) {
				r := vals[j+1] / v
				walk += v * (1 - 4*(0.5-r)*(0.5-r))
			}
		}
		raw := walk / math.Max(1e-9, max)
		out[i] = 1 + math.Min(raw-0.18, 5*(raw-0.22)*(raw-0.22)*(raw-0.22))
	}
	return out
}
