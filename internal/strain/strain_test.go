package strain

import (
	"math"
	"testing"

	"maniasr/internal/chart"
	"maniasr/internal/corner"
)

func prepareFixture(t *testing.T) (chart.Prepared, corner.Grids) {
	t.Helper()
	notes := []chart.Note{
		{K: 0, H: 0, T: -1},
		{K: 0, H: 150, T: -1},
		{K: 1, H: 300, T: 600},
		{K: 2, H: 450, T: -1},
	}
	p, err := chart.Prepare(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, corner.Build(p)
}

func TestBuildUsageMarksActiveWindow(t *testing.T) {
	p, g := prepareFixture(t)
	usage := BuildUsage(p, g.Base)

	// Lane 0's first note at h=0 should be active somewhere in [-150, 150].
	anyActive := false
	for i, c := range g.Base {
		if c >= 0 && c <= 10 && usage.Active[0][i] {
			anyActive = true
		}
	}
	if !anyActive {
		t.Error("expected lane 0 to be active near its note's head")
	}
}

func TestAnchorIsZeroWithAtMostOneActiveLane(t *testing.T) {
	notes := []chart.Note{{K: 0, H: 0, T: -1}}
	p, err := chart.Prepare(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := corner.Build(p)
	usage := BuildUsage(p, g.Base)
	anchor := Anchor(usage, len(g.Base))
	for i, v := range anchor {
		if v != 0 {
			t.Errorf("anchor[%d] = %v, want 0 (single lane in use)", i, v)
		}
	}
}

func TestBuildJbarNonNegativeAndFinite(t *testing.T) {
	p, g := prepareFixture(t)
	jbar := BuildJbar(p, g.Base, p.X)
	for i, v := range jbar.Values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("J̄[%d] = %v, want finite and non-negative", i, v)
		}
	}
}

func TestBuildDensityKsIsAtLeastOne(t *testing.T) {
	p, g := prepareFixture(t)
	usage := BuildUsage(p, g.Base)
	_, ks := BuildDensity(p, g.Base, usage)
	for i, v := range ks {
		if v < 1 {
			t.Errorf("Ks[%d] = %v, want >= 1", i, v)
		}
	}
}

func TestBuildRbarEmptyWithoutLongNotes(t *testing.T) {
	notes := []chart.Note{{K: 0, H: 0, T: -1}, {K: 0, H: 150, T: -1}}
	p, err := chart.Prepare(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := corner.Build(p)
	r := BuildRbar(p, g.Base, p.X)
	for i, v := range r {
		if v != 0 {
			t.Errorf("R[%d] = %v, want 0 (no long notes)", i, v)
		}
	}
}
