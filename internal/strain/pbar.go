package strain

import (
	"math"
	"sort"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
)

// BuildPbar computes P̄, the pattern strain modulated by long-note body
// level and the anchor factor (spec §4.6).
func BuildPbar(p chart.Prepared, base []float64, x float64, anchor []float64) []float64 {
	n := len(base)
	lnRep := buildLNRep(p)
	raw := make([]float64, n)

	notes := p.Notes
	for i := 0; i+1 < len(notes); i++ {
		h1, h2 := float64(notes[i].H), float64(notes[i+1].H)

		if h2-h1 < 1e-9 {
			spikeBase := 0.02 * (4/x - 24)
			spike := 1000 * powGuard(spikeBase, 0.25)
			if idx := corner.ExactIndex(base, h1); idx >= 0 {
				raw[idx] += spike
			}
			continue
		}

		delt := 0.001 * (h2 - h1)
		ln := 0.001 * lnRep.Integral(h1, h2)
		v := 1 + 6*ln

		b := 1.0
		u := 7.5 / delt
		if u > 160 && u < 360 {
			b = 1 + 1.7e-7*(u-160)*(u-360)
		}

		var tau float64
		if delt < 2*x/3 {
			d := delt - x/2
			tau = 1 - 24*d*d/x
		} else {
			d := x / 6
			tau = 1 - 24*d*d/x
		}

		inc := powGuard(0.08*tau/x, 0.25) * math.Max(b, v) / delt

		ceiling := math.Max(inc, 2*inc-10)
		lo, hi := corner.Range(base, h1, h2)
		for idx := lo; idx < hi; idx++ {
			raw[idx] += math.Min(inc*anchor[idx], ceiling)
		}
	}

	return smoothing.Smooth(base, raw, 500, smoothing.Sum)
}

// buildLNRep builds the LN_rep piecewise-constant "long-note body level"
// function over [0,T] from the +1.3/-0.3/-1.0 event deltas (spec §4.6).
func buildLNRep(p chart.Prepared) *smoothing.Piecewise {
	deltas := make(map[int]float64)
	for _, note := range p.LN {
		h, t := note.H, note.T
		addAt := h + 60
		if addAt > t {
			addAt = t
		}
		decAt := h + 120
		if decAt > t {
			decAt = t
		}
		deltas[addAt] += 1.3
		deltas[decAt] -= 0.3
		deltas[t] -= 1.0
	}

	times := make([]int, 0, len(deltas))
	for t := range deltas {
		times = append(times, t)
	}
	sort.Ints(times)

	xs := make([]float64, 0, len(times)+1)
	fs := make([]float64, 0, len(times)+1)
	xs = append(xs, 0)
	fs = append(fs, 0)

	var r float64
	for _, t := range times {
		r += deltas[t]
		v := math.Min(r, 2.5+0.5*r)
		if t == 0 {
			fs[0] = v
			continue
		}
		xs = append(xs, float64(t))
		fs = append(fs, v)
	}

	return smoothing.NewPiecewise(xs, fs)
}
