package difficulty

import (
	"math"
	"testing"

	"maniasr/internal/chart"
)

func TestCalculateEmptyChartIsZero(t *testing.T) {
	sr, err := Calculate(chart.Chart{K: 4, OD: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr != 0 {
		t.Errorf("SR = %v, want 0", sr)
	}
}

func TestCalculateSingleTapIsZero(t *testing.T) {
	c := chart.Chart{K: 4, OD: 8, Notes: []chart.Note{{K: 0, H: 100, T: -1}}}
	sr, err := Calculate(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr != 0 {
		t.Errorf("SR = %v, want 0 (no consecutive note pair)", sr)
	}
}

func TestCalculateRejectsUnsupportedKeyCount(t *testing.T) {
	c := chart.Chart{K: 11, OD: 8, Notes: []chart.Note{{K: 0, H: 0, T: -1}}}
	_, err := Calculate(c)
	if err != chart.ErrUnsupportedKeyCount {
		t.Errorf("err = %v, want ErrUnsupportedKeyCount", err)
	}
}

func TestCalculateIsNonNegativeAndFinite(t *testing.T) {
	notes := make([]chart.Note, 0, 64)
	for i := 0; i < 64; i++ {
		notes = append(notes, chart.Note{K: i % 4, H: i * 137, T: -1})
	}
	c := chart.Chart{K: 4, OD: 8, Notes: notes}
	sr, err := Calculate(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr < 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		t.Errorf("SR = %v, want finite and non-negative", sr)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	notes := make([]chart.Note, 0, 64)
	for i := 0; i < 64; i++ {
		notes = append(notes, chart.Note{K: i % 4, H: i * 150, T: -1})
	}
	c := chart.Chart{K: 4, OD: 8, Notes: notes}

	a, err := Calculate(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Calculate(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("Calculate is not deterministic: %v != %v", a, b)
	}
}

func TestCalculateTwoIdenticalTimeTapsSpikePathFinite(t *testing.T) {
	c := chart.Chart{K: 4, OD: 8, Notes: []chart.Note{
		{K: 0, H: 0, T: -1},
		{K: 1, H: 0, T: -1},
	}}
	sr, err := Calculate(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		t.Errorf("SR = %v, want finite and > 0", sr)
	}
}

func TestCalculateLongNoteStreamHarderThanEquivalentTaps(t *testing.T) {
	tapNotes := make([]chart.Note, 0, 64)
	lnNotes := make([]chart.Note, 0, 64)
	for i := 0; i < 64; i++ {
		h := 150 * i
		tapNotes = append(tapNotes, chart.Note{K: 0, H: h, T: -1})
		lane := i % 4
		lnH := 250 * i
		lnNotes = append(lnNotes, chart.Note{K: lane, H: lnH, T: lnH + 200})
	}

	tapSR, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: tapNotes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lnSR, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: lnNotes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lnSR <= tapSR {
		t.Errorf("expected LN stream SR (%v) > jack SR (%v)", lnSR, tapSR)
	}
}

func TestCalculateLowerODIncreasesLeniencyAndLowersSR(t *testing.T) {
	notes := make([]chart.Note, 0, 32)
	for i := 0; i < 32; i++ {
		notes = append(notes, chart.Note{K: i % 4, H: i * 120, T: -1})
	}

	hard, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	easy, err := Calculate(chart.Chart{K: 4, OD: 0, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if easy >= hard {
		t.Errorf("expected OD=0 SR (%v) < OD=8 SR (%v)", easy, hard)
	}
}

func TestCalculateIsReorderingIndependent(t *testing.T) {
	notes := []chart.Note{
		{K: 0, H: 2000, T: -1},
		{K: 1, H: 2150, T: -1},
		{K: 2, H: 2300, T: 2600},
		{K: 3, H: 2450, T: -1},
		{K: 0, H: 2600, T: -1},
		{K: 1, H: 2750, T: -1},
	}

	shuffled := make([]chart.Note, len(notes))
	for i, n := range notes {
		shuffled[len(notes)-1-i] = n
	}

	want, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: shuffled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("SR depends on input note order: reversed = %v, original = %v", got, want)
	}
}

func TestCalculateIsTimeShiftInvariant(t *testing.T) {
	notes := []chart.Note{
		{K: 0, H: 2000, T: -1},
		{K: 1, H: 2150, T: -1},
		{K: 2, H: 2300, T: 2600},
		{K: 3, H: 2450, T: -1},
		{K: 0, H: 2600, T: -1},
		{K: 1, H: 2750, T: -1},
		{K: 2, H: 2900, T: -1},
	}

	const shift = 50000
	shifted := make([]chart.Note, len(notes))
	for i, n := range notes {
		tail := n.T
		if tail >= 0 {
			tail += shift
		}
		shifted[i] = chart.Note{K: n.K, H: n.H + shift, T: tail}
	}

	want, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Calculate(chart.Chart{K: 4, OD: 8, Notes: shifted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("SR depends on absolute chart time: shifted = %v, original = %v", got, want)
	}
}

func TestCalculateK1DegenerateChartIsFiniteAndNonNegative(t *testing.T) {
	notes := make([]chart.Note, 0, 16)
	for i := 0; i < 16; i++ {
		notes = append(notes, chart.Note{K: 0, H: i * 150, T: -1})
	}
	sr, err := Calculate(chart.Chart{K: 1, OD: 8, Notes: notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr < 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		t.Errorf("SR = %v, want finite and non-negative", sr)
	}
}
