package chart

import "math"

// Prepared is the read-only output of P1 (preparation): everything later
// stages need, computed once and never mutated again.
type Prepared struct {
	K      int
	OD     float64
	X      float64 // leniency
	T      int     // end time, 1 + max(h, t) over all notes
	Notes  []Note  // canonical order: (h asc, k asc)
	ByLane [][]Note
	LN     []Note // notes with t>=0, canonical order
	Tail   []Note // LN sorted by tail time ascending
}

// Leniency computes x = 0.3*sqrt((64.5-ceil(3*OD))/500), clipped to
// min(x, 0.6*(x-0.09)+0.09).
func Leniency(od float64) float64 {
	x := 0.3 * math.Sqrt((64.5-math.Ceil(3*od))/500)
	clip := 0.6*(x-0.09) + 0.09
	if clip < x {
		x = clip
	}
	return x
}

// Prepare validates K and, for a non-empty chart, builds the canonical
// note ordering, per-lane grouping, long-note sequences, leniency and end
// time. An empty chart returns a Prepared with only K and OD set and
// Notes == nil; callers
// must check len(Notes) == 0 and short-circuit to SR == 0 themselves, per
// spec: an empty note set is not an error.
func Prepare(c Chart) (Prepared, error) {
	if err := ValidateKeyCount(c.K); err != nil {
		return Prepared{}, err
	}

	p := Prepared{K: c.K, OD: c.OD}
	if len(c.Notes) == 0 {
		return p, nil
	}

	p.Notes = sortByHeadThenLane(c.Notes)
	p.X = Leniency(c.OD)

	p.ByLane = make([][]Note, c.K)
	maxTime := 0
	for _, n := range p.Notes {
		if n.K >= 0 && n.K < c.K {
			p.ByLane[n.K] = append(p.ByLane[n.K], n)
		}
		if n.H > maxTime {
			maxTime = n.H
		}
		if n.T > maxTime {
			maxTime = n.T
		}
		if n.T >= 0 {
			p.LN = append(p.LN, n)
		}
	}
	p.T = maxTime + 1
	p.Tail = sortByTail(p.LN)

	return p, nil
}
