// Package smoothing implements the one numeric primitive every strain
// signal in internal/strain is built from (spec §4.10): a piecewise-
// constant function over an irregular grid, exposed as an O(log n)
// cumulative-integral query, plus the sliding-window sum/average wrapper
// around it.
package smoothing

import "sort"

// Piecewise is a piecewise-constant function: F[i] is the value held on
// [X[i], X[i+1)), extended flat before X[0] is never queried directly (the
// window clamp in Smooth always keeps queries inside [X[0], X[last]]) and
// the interval starting at the final grid point is never entered either.
type Piecewise struct {
	x   []float64
	f   []float64
	cum []float64
}

// NewPiecewise builds the cumulative-integral array for f sampled on the
// strictly increasing grid x. len(f) must be at least len(x)-1; a value
// at the final grid point, if present, is never read.
func NewPiecewise(x, f []float64) *Piecewise {
	cum := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		cum[i] = cum[i-1] + f[i-1]*(x[i]-x[i-1])
	}
	return &Piecewise{x: x, f: f, cum: cum}
}

// Query returns the cumulative integral of f from x[0] up to q, clamping
// q into the grid's domain.
func (p *Piecewise) Query(q float64) float64 {
	n := len(p.x)
	if n == 0 {
		return 0
	}
	if q <= p.x[0] {
		return 0
	}
	if q >= p.x[n-1] {
		return p.cum[n-1]
	}
	i := sort.Search(n, func(j int) bool { return p.x[j] >= q }) - 1
	return p.cum[i] + p.f[i]*(q-p.x[i])
}

// Integral returns ∫ f over [a, b].
func (p *Piecewise) Integral(a, b float64) float64 {
	return p.Query(b) - p.Query(a)
}

// Mode selects the smoothing window's reduction.
type Mode int

const (
	// Sum integrates the window and scales by 0.001 (ms → s).
	Sum Mode = iota
	// Average divides the window integral by the window's width.
	Average
)

// Smooth applies a ±window sliding integral to f, sampled on grid x, and
// returns the smoothed array (same length and alignment as x).
func Smooth(x, f []float64, window float64, mode Mode) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	pw := NewPiecewise(x, f)
	lo, hi := x[0], x[n-1]
	for i, xi := range x {
		a := xi - window
		if a < lo {
			a = lo
		}
		b := xi + window
		if b > hi {
			b = hi
		}
		val := pw.Integral(a, b)
		switch mode {
		case Average:
			if b > a {
				out[i] = val / (b - a)
			}
		default:
			out[i] = 0.001 * val
		}
	}
	return out
}

// Interp linearly interpolates oldVals (sampled on oldX) onto newX,
// clamping queries outside oldX's domain to the nearest endpoint value.
func Interp(newX, oldX, oldVals []float64) []float64 {
	out := make([]float64, len(newX))
	n := len(oldX)
	if n == 0 {
		return out
	}
	for i, x := range newX {
		switch {
		case x <= oldX[0]:
			out[i] = oldVals[0]
		case x >= oldX[n-1]:
			out[i] = oldVals[n-1]
		default:
			j := sort.Search(n, func(k int) bool { return oldX[k] >= x }) - 1
			t := (x - oldX[j]) / (oldX[j+1] - oldX[j])
			out[i] = oldVals[j]*(1-t) + oldVals[j+1]*t
		}
	}
	return out
}

// StepInterp left-step-interpolates oldVals (sampled on oldX) onto newX:
// each query takes the last sample at or before it.
func StepInterp(newX, oldX, oldVals []float64) []float64 {
	out := make([]float64, len(newX))
	n := len(oldX)
	if n == 0 {
		return out
	}
	for i, x := range newX {
		j := sort.Search(n, func(k int) bool { return oldX[k] > x }) - 1
		if j < 0 {
			j = 0
		}
		if j > n-1 {
			j = n - 1
		}
		out[i] = oldVals[j]
	}
	return out
}
