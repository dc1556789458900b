package strain

import (
	"math"
	"sort"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
)

// BuildRbar computes R̄, the long-note release strain (spec §4.8).
func BuildRbar(p chart.Prepared, base []float64, x float64) []float64 {
	n := len(base)
	raw := make([]float64, n)

	tails := p.Tail
	if len(tails) == 0 {
		return raw
	}

	iVals := make([]float64, len(tails))
	for idx, note := range tails {
		h := float64(note.H)
		t := float64(note.T)
		hNext := nextHeadAfter(p, note.K, note.T)

		ih := 0.001 * math.Abs(t-h-80) / x
		it := 0.001 * math.Abs(hNext-t-80) / x
		iVals[idx] = 2 / (2 + math.Exp(-5*(ih-0.75)) + math.Exp(-5*(it-0.75)))
	}

	for idx := 0; idx+1 < len(tails); idx++ {
		t1 := float64(tails[idx].T)
		t2 := float64(tails[idx+1].T)
		deltaR := 0.001 * (t2 - t1)
		r := 0.08 * math.Pow(deltaR, -0.5) / x * (1 + 0.8*(iVals[idx]+iVals[idx+1]))

		lo, hi := corner.Range(base, t1, t2)
		for j := lo; j < hi; j++ {
			if r > raw[j] {
				raw[j] = r
			}
		}
	}

	return smoothing.Smooth(base, raw, 500, smoothing.Sum)
}

// nextHeadAfter returns the head time of the earliest note in lane after
// tailTime, or +Inf if none (spec §4.8).
func nextHeadAfter(p chart.Prepared, lane, tailTime int) float64 {
	notes := p.ByLane[lane]
	j := sort.Search(len(notes), func(i int) bool { return notes[i].H > tailTime })
	if j == len(notes) {
		return math.Inf(1)
	}
	return float64(notes[j].H)
}
