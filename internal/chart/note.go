// Package chart defines the input record the difficulty core consumes and
// the derived, read-only views of it (canonical order, per-lane grouping,
// long-note sequences, leniency) that every later stage builds on.
package chart

import "sort"

// Note is a single hit object: lane k, head time h (ms), and tail time t
// (ms) for a held long note, or -1 for a tap.
type Note struct {
	K int
	H int
	T int
}

// IsLongNote reports whether the note has a release time.
func (n Note) IsLongNote() bool {
	return n.T >= 0
}

// EndTime returns the tail time for a long note, or the head time for a tap.
func (n Note) EndTime() int {
	if n.T >= 0 {
		return n.T
	}
	return n.H
}

// Chart is the parsed input: K parallel lanes, an OverallDifficulty
// parameter, and the unordered set of notes. Every note's lane must lie in
// [0, K).
type Chart struct {
	K     int
	OD    float64
	Notes []Note
}

// sortByHeadThenLane stable-sorts notes by (h asc, k asc), the canonical
// ordering every stage downstream assumes.
func sortByHeadThenLane(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].H != out[j].H {
			return out[i].H < out[j].H
		}
		return out[i].K < out[j].K
	})
	return out
}

// sortByTail stable-sorts notes by tail time ascending.
func sortByTail(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].T < out[j].T
	})
	return out
}
