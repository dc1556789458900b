package corner

import (
	"testing"

	"maniasr/internal/chart"
)

func TestBuildEmptyChartYieldsEmptyGrids(t *testing.T) {
	p, _ := chart.Prepare(chart.Chart{K: 4, OD: 8})
	g := Build(p)
	if len(g.Base) != 0 || len(g.A) != 0 || len(g.All) != 0 {
		t.Errorf("expected empty grids for empty chart, got %+v", g)
	}
}

func TestBuildIncludesSeedsAndIsSorted(t *testing.T) {
	notes := []chart.Note{{K: 0, H: 1000, T: -1}, {K: 1, H: 2000, T: 2500}}
	p, err := chart.Prepare(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := Build(p)

	for _, want := range []float64{0, 1000, 2000, 2500, float64(p.T)} {
		found := false
		for _, v := range g.Base {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("base grid missing seed %v: %v", want, g.Base)
		}
	}

	for i := 1; i < len(g.Base); i++ {
		if g.Base[i] <= g.Base[i-1] {
			t.Fatalf("base grid not strictly increasing at %d: %v", i, g.Base)
		}
	}
	for i := 1; i < len(g.All); i++ {
		if g.All[i] <= g.All[i-1] {
			t.Fatalf("all grid not strictly increasing at %d: %v", i, g.All)
		}
	}
}

func TestRangeIsHalfOpen(t *testing.T) {
	grid := []float64{0, 10, 20, 30}
	lo, hi := Range(grid, 10, 30)
	if lo != 1 || hi != 3 {
		t.Errorf("Range(10,30) = (%d,%d), want (1,3)", lo, hi)
	}
}

func TestIndexAtOrBeforeAndAfter(t *testing.T) {
	grid := []float64{0, 10, 20, 30}
	if i := IndexAtOrAfter(grid, 15); i != 2 {
		t.Errorf("IndexAtOrAfter(15) = %d, want 2", i)
	}
	if i := IndexAtOrBefore(grid, 15); i != 1 {
		t.Errorf("IndexAtOrBefore(15) = %d, want 1", i)
	}
	if i := IndexAtOrBefore(grid, 20); i != 2 {
		t.Errorf("IndexAtOrBefore(20) = %d, want 2", i)
	}
	if i := IndexAtOrBefore(grid, -5); i != 0 {
		t.Errorf("IndexAtOrBefore(-5) = %d, want 0", i)
	}
}

func TestExactIndex(t *testing.T) {
	grid := []float64{0, 10, 20}
	if i := ExactIndex(grid, 10); i != 1 {
		t.Errorf("ExactIndex(10) = %d, want 1", i)
	}
	if i := ExactIndex(grid, 11); i != -1 {
		t.Errorf("ExactIndex(11) = %d, want -1", i)
	}
}
