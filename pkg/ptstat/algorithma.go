// Package ptstat implements ISO 13528:2022 Annex C Algorithm A: an
// iterative, Huber-style robust location/scale estimator that tolerates
// outliers by winsorizing rather than discarding them.
package ptstat

import (
	"fmt"
	"math"

	"github.com/pt-lab/isopt/pkg/numbuf"
	"github.com/pt-lab/isopt/pkg/ptmath"
)

// madToSigma is the scale factor that turns a MAD into a normal-
// consistent standard deviation estimate: 1/Φ^-1(3/4).
const madToSigma = 1.4826

// winsorCap is the number of scale units beyond which observations are
// clamped during each iteration (Huber's c, fixed at 1.5σ by spec).
const winsorCap = 1.5

// scaleConsistency restores normal consistency to the winsorized scale
// estimate. This spec fixes it at 1.134; implementations must not
// silently substitute another constant.
const scaleConsistency = 1.134

// Result is the output of Algorithm A.
type Result struct {
	Mu         float64 // robust location estimate (x_pt)
	Sigma      float64 // robust scale estimate (s*)
	PUsed      int     // number of participants retained; Algorithm A never discards
	Iterations int
	Converged  bool
}

// Run executes Algorithm A over x with the given convergence tolerance
// and iteration cap. It returns an error only for input-shape problems
// (empty vector, non-finite entry, non-positive tolerance or
// max_iterations); numerical non-convergence is reported via
// Result.Converged=false, never as an error.
func Run(x []float64, tolerance float64, maxIterations int) (Result, error) {
	n := len(x)
	if n == 0 {
		return Result{}, fmt.Errorf("ptstat: input vector must have at least one element")
	}
	if tolerance <= 0 {
		return Result{}, fmt.Errorf("ptstat: tolerance must be > 0, got %v", tolerance)
	}
	if maxIterations <= 0 {
		return Result{}, fmt.Errorf("ptstat: max_iterations must be > 0, got %d", maxIterations)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("ptstat: element %d is not finite: %v", i, v)
		}
	}

	if n == 1 {
		return Result{Mu: x[0], Sigma: 0, PUsed: 1, Iterations: 0, Converged: true}, nil
	}

	mu0 := ptmath.Median(x)
	sigma0 := madToSigma * ptmath.MAD(x, mu0)

	if sigma0 == 0 {
		return Result{Mu: mu0, Sigma: 0, PUsed: n, Iterations: 0, Converged: true}, nil
	}

	scratch, err := numbuf.New(n)
	if err != nil {
		return Result{}, err
	}

	mu, sigma := mu0, sigma0
	for k := 1; k <= maxIterations; k++ {
		delta := winsorCap * sigma
		ptmath.WinsorizeInto(scratch.Raw(), x, mu-delta, mu+delta)

		newMu := mean(scratch.Raw())
		newSigma := scaleConsistency * math.Sqrt(sumSquaredDeviation(scratch.Raw(), newMu)/float64(n-1))

		converged := math.Abs(newMu-mu) <= tolerance*math.Max(1, math.Abs(mu)) &&
			math.Abs(newSigma-sigma) <= tolerance*math.Max(1, sigma)

		mu, sigma = newMu, newSigma

		if converged {
			return Result{Mu: mu, Sigma: sigma, PUsed: n, Iterations: k, Converged: true}, nil
		}
		if k == maxIterations {
			return Result{Mu: mu, Sigma: sigma, PUsed: n, Iterations: k, Converged: false}, nil
		}
	}

	// unreachable: the loop above always returns by k == maxIterations
	return Result{}, fmt.Errorf("ptstat: internal error: iteration loop exited without a result")
}

func mean(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func sumSquaredDeviation(v []float64, center float64) float64 {
	sum := 0.0
	for _, x := range v {
		d := x - center
		sum += d * d
	}
	return sum
}
