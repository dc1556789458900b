// Package difficulty ties the chart, corner-grid and strain packages
// together into the single public entrypoint: the star-rating pipeline
// (spec §4.11, P11).
package difficulty

import (
	"math"
	"sort"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
	"maniasr/internal/smoothing"
	"maniasr/internal/strain"
)

// Calculate runs the full difficulty pipeline on a chart and returns its
// star rating. An empty chart (no notes) yields 0. An unsupported key
// count surfaces chart.ErrUnsupportedKeyCount.
func Calculate(c chart.Chart) (float64, error) {
	p, err := chart.Prepare(c)
	if err != nil {
		return 0, err
	}
	if len(p.Notes) == 0 {
		return 0, nil
	}

	grids := corner.Build(p)

	usage := strain.BuildUsage(p, grids.Base)
	anchor := strain.Anchor(usage, len(grids.Base))
	jbar := strain.BuildJbar(p, grids.Base, p.X)
	xbar := strain.BuildXbar(p, grids.Base, p.X, usage)
	pbar := strain.BuildPbar(p, grids.Base, p.X, anchor)
	abar := strain.BuildAbar(p, grids.Base, grids.A, jbar, usage)
	rbar := strain.BuildRbar(p, grids.Base, p.X)
	cDensity, ks := strain.BuildDensity(p, grids.Base, usage)

	g := grids.All
	jOnG := smoothing.Interp(g, grids.Base, jbar.Values)
	xOnG := smoothing.Interp(g, grids.Base, xbar)
	pOnG := smoothing.Interp(g, grids.Base, pbar)
	rOnG := smoothing.Interp(g, grids.Base, rbar)
	aOnG := smoothing.Interp(g, grids.A, abar)
	cOnG := smoothing.StepInterp(g, grids.Base, cDensity)
	ksOnG := smoothing.StepInterp(g, grids.Base, ks)

	d := make([]float64, len(g))
	for i := range g {
		jMin := math.Min(jOnG[i], 8+0.85*jOnG[i])
		aPow3ks := powGuard(aOnG[i], 3/ksOnG[i])
		term1 := 0.4 * math.Pow(math.Max(0, aPow3ks*jMin), 1.5)

		pComp := 0.8*pOnG[i] + 35*rOnG[i]/(cOnG[i]+8)
		aPow23 := powGuard(aOnG[i], 2.0/3.0)
		term2 := 0.6 * math.Pow(math.Max(0, aPow23*pComp), 1.5)

		s := powGuard(term1+term2, 2.0/3.0)

		denom := xOnG[i] + s + 1
		var tRatio float64
		if denom > 0 {
			tRatio = aPow3ks * xOnG[i] / denom
		}

		term3 := 0.0
		if tRatio > 0 && s > 0 {
			term3 = 2.7 * math.Sqrt(s) * math.Pow(tRatio, 1.5)
		}
		d[i] = term3 + 0.27*s
	}

	weights := gapWeights(g, cOnG)
	sr0 := percentileAggregate(d, weights)

	n := float64(len(p.Notes))
	for _, note := range p.LN {
		span := math.Min(float64(note.T-note.H), 1000)
		n += 0.5 * span / 200
	}
	sr1 := sr0 * n / (n + 60)

	sr2 := sr1
	if sr1 > 9 {
		sr2 = 9 + (sr1-9)/1.2
	}

	return 0.975 * sr2, nil
}

// powGuard raises base to exp, treating a non-positive base as 0: the
// pipeline's formulas use fractional exponents throughout and must never
// surface NaN from a negative base (spec §4.11).
func powGuard(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// gapWeights returns, for each grid point, the trapezoidal half-distance
// to its neighbours (single-sided at the ends) times the local note
// density: the per-point weight used by the percentile reduction.
func gapWeights(g, c []float64) []float64 {
	n := len(g)
	w := make([]float64, n)
	for i := range g {
		var gap float64
		switch {
		case n == 1:
			gap = 0
		case i == 0:
			gap = (g[1] - g[0]) / 2
		case i == n-1:
			gap = (g[n-1] - g[n-2]) / 2
		default:
			gap = (g[i+1] - g[i-1]) / 2
		}
		w[i] = c[i] * gap
	}
	return w
}

// percentileAggregate implements the weighted-percentile reduction and
// SR0 combination (spec §4.11).
func percentileAggregate(d, w []float64) float64 {
	n := len(d)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return d[idx[a]] < d[idx[b]] })

	sortedD := make([]float64, n)
	sortedW := make([]float64, n)
	var total float64
	for i, j := range idx {
		sortedD[i] = d[j]
		sortedW[i] = w[j]
		total += w[j]
	}

	cum := make([]float64, n)
	var running float64
	for i, wt := range sortedW {
		running += wt
		if total > 0 {
			cum[i] = running / total
		} else {
			cum[i] = 1
		}
	}

	at := func(target float64) float64 {
		k := sort.Search(n, func(i int) bool { return cum[i] >= target })
		if k >= n {
			k = n - 1
		}
		return sortedD[k]
	}

	p93 := (at(0.945) + at(0.935) + at(0.925) + at(0.915)) / 4
	p83 := (at(0.845) + at(0.835) + at(0.825) + at(0.815)) / 4

	var num float64
	for i, dv := range sortedD {
		num += math.Pow(math.Max(0, dv), 5) * sortedW[i]
	}
	var m float64
	if total > 0 {
		m = math.Pow(num/total, 0.2)
	}

	return 0.25*0.88*p93 + 0.20*0.94*p83 + 0.55*m
}
