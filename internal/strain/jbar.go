package strain

import (
	"math"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
)

const jbarLambdaN = 5.0

// Jbar holds the P5 output: the combined per-lane jack strain J̄ and the
// per-lane gap-to-next-note array Δ_k, both sampled on the base corners.
type Jbar struct {
	Values []float64
	Delta  [][]float64
}

// BuildJbar computes J̄ and Δ_k (spec §4.4).
func BuildJbar(p chart.Prepared, base []float64, x float64) Jbar {
	n := len(base)
	k := p.K
	delta := make([][]float64, k)
	jBarLane := make([][]float64, k)

	lambda1x := 0.11 * math.Sqrt(math.Sqrt(x))

	for lane := 0; lane < k; lane++ {
		d := make([]float64, n)
		for i := range d {
			d[i] = 1e9
		}
		jRaw := make([]float64, n)

		notes := p.ByLane[lane]
		for i := 0; i+1 < len(notes); i++ {
			h1, h2 := float64(notes[i].H), float64(notes[i+1].H)
			delt := 0.001 * (h2 - h1)
			if delt < 1e-9 {
				continue
			}
			absDelta := math.Abs(delt - 0.08)
			temp := 0.15 + absDelta
			temp4 := temp * temp * temp * temp
			jack := 1 - 7e-5/temp4
			val := jack / (delt * (delt + lambda1x))

			lo, hi := corner.Range(base, h1, h2)
			for idx := lo; idx < hi; idx++ {
				d[idx] = math.Min(d[idx], delt)
				jRaw[idx] = val
			}
		}

		delta[lane] = d
		jBarLane[lane] = smoothing.Smooth(base, jRaw, 500, smoothing.Sum)
	}

	jBar := make([]float64, n)
	for i := 0; i < n; i++ {
		var num, den float64
		for lane := 0; lane < k; lane++ {
			w := 1.0 / math.Max(delta[lane][i], 1e-9)
			den += w
			num += powGuard(jBarLane[lane][i], jbarLambdaN) * w
		}
		if den > 0 {
			jBar[i] = math.Pow(num/den, 1.0/jbarLambdaN)
		}
	}

	return Jbar{Values: jBar, Delta: delta}
}

// powGuard raises base to exp, treating a non-positive base as 0 (spec §7.3
// and §9: fractional powers never surface NaN).
func powGuard(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}
