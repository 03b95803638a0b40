// Package ptmath implements the small numerical primitives that the
// robust estimator and scoring engine are built from: median, median
// absolute deviation, winsorization, and the Huber influence function.
// Median, MAD, Winsorize, and HuberPsi are pure and never modify the
// caller's slice; WinsorizeInto writes into the destination slice the
// caller passes it.
package ptmath

import (
	"math"
	"sort"
)

// Median returns the order-statistic median of v. Even-length inputs use
// the arithmetic mean of the two central order statistics. Median does
// not mutate v.
func Median(v []float64) float64 {
	n := len(v)
	sorted := make([]float64, n)
	copy(sorted, v)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

// MAD returns the median absolute deviation of v about center:
// median(|v_i - center|).
func MAD(v []float64, center float64) float64 {
	dev := make([]float64, len(v))
	for i, x := range v {
		dev[i] = math.Abs(x - center)
	}
	return Median(dev)
}

// Winsorize returns a copy of v with every element clamped to [lo, hi].
func Winsorize(v []float64, lo, hi float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = clamp(x, lo, hi)
	}
	return out
}

// WinsorizeInto clamps every element of src to [lo, hi], writing the
// result into dst. dst and src must be the same length; dst may alias
// src. It exists so callers with a preallocated scratch buffer (see
// pkg/numbuf) never allocate inside a hot loop.
func WinsorizeInto(dst, src []float64, lo, hi float64) {
	for i, x := range src {
		dst[i] = clamp(x, lo, hi)
	}
}

// HuberPsi is the Huber influence function with tuning constant c:
// clamp(u, -c, c). It is provided for extensibility beyond Algorithm A's
// fixed winsorization step, per spec.
func HuberPsi(u, c float64) float64 {
	return clamp(u, -c, c)
}

func clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}
