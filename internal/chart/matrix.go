package chart

import "fmt"

// ErrUnsupportedKeyCount is returned when K is outside the range the
// cross-column weight table covers: K<1, K>18, or an odd K above 10.
// That rule (rather than the narrower "K in {11,13,15,17}" phrasing)
// follows the original reference's guard exactly.
var ErrUnsupportedKeyCount = fmt.Errorf("unsupported key count")

// crossMatrix holds, for each supported K, the K+1 adjacent-pair weights
// used by the cross-column strain (Xbar). Odd K above 10 has no entry.
var crossMatrix = map[int][]float64{
	1:  {-1},
	2:  {0.075, 0.075},
	3:  {0.125, 0.05, 0.125},
	4:  {0.125, 0.125, 0.125, 0.125},
	5:  {0.175, 0.25, 0.05, 0.25, 0.175},
	6:  {0.175, 0.25, 0.175, 0.175, 0.25, 0.175},
	7:  {0.225, 0.35, 0.25, 0.05, 0.25, 0.35, 0.225},
	8:  {0.225, 0.35, 0.25, 0.225, 0.225, 0.25, 0.35, 0.225},
	9:  {0.275, 0.45, 0.35, 0.25, 0.05, 0.25, 0.35, 0.45, 0.275},
	10: {0.275, 0.45, 0.35, 0.25, 0.275, 0.275, 0.25, 0.35, 0.45, 0.275},
	12: {0.8, 0.8, 0.8, 0.6, 0.4, 0.2, 0.05, 0.2, 0.4, 0.6, 0.8, 0.8, 0.8},
	14: {0.4, 0.4, 0.2, 0.2, 0.3, 0.3, 0.1, 0.1, 0.3, 0.3, 0.2, 0.2, 0.4, 0.4, 0.4},
	16: {0.4, 0.4, 0.2, 0.2, 0.4, 0.4, 0.2, 0.1, 0.1, 0.2, 0.4, 0.4, 0.2, 0.2, 0.4, 0.4, 0.4},
	18: {0.4, 0.4, 0.2, 0.4, 0.2, 0.4, 0.2, 0.3, 0.1, 0.1, 0.3, 0.2, 0.4, 0.2, 0.4, 0.2, 0.4, 0.4, 0.4},
}

// ValidateKeyCount rejects key counts the weight table does not cover.
func ValidateKeyCount(k int) error {
	if k > 18 || k < 1 || (k > 10 && k%2 == 1) {
		return ErrUnsupportedKeyCount
	}
	return nil
}

// CrossWeight returns M[K][col], the cross-column weight for adjacent-pair
// index col in [0, K]. Negative sentinel entries (the K=1 table has no
// real weights, only a placeholder) and out-of-range columns both clamp
// to 0: a numeric guard, not a special case, since K=1 has no adjacent
// pair to weight in the first place.
func CrossWeight(k, col int) float64 {
	table, ok := crossMatrix[k]
	if !ok || col < 0 || col >= len(table) {
		return 0
	}
	if table[col] < 0 {
		return 0
	}
	return table[col]
}
