package ptcore

import (
	"math"

	"github.com/pt-lab/isopt/pkg/ptstat"
)

// SuppliedValue carries the value/uncertainty pair required by every
// non-A method.
type SuppliedValue struct {
	Value       float64
	Uncertainty float64
}

// Dispatch selects the assigned-value path for method and computes
// x_pt/u(x_pt) accordingly. dataset.Results feeds Algorithm A for
// MethodA; for the other three methods the result vector is not used to
// derive x_pt, only retained for scoring.
func Dispatch(method Method, dataset Dataset, algoParams AlgorithmAParams, supplied *SuppliedValue) (AssignedValue, error) {
	if !method.Valid() {
		return AssignedValue{}, InvalidParameter{Name: "method"}
	}

	if method != MethodA {
		if supplied == nil {
			return AssignedValue{}, MissingMethodInput{Method: method}
		}
		if supplied.Uncertainty < 0 {
			return AssignedValue{}, InvalidParameter{Name: "supplied_uncertainty"}
		}
		return AssignedValue{
			Method: method,
			XPt:    supplied.Value,
			UXPt:   supplied.Uncertainty,
		}, nil
	}

	p := algoParams.ResolveDefaults()
	if p.Tolerance <= 0 {
		return AssignedValue{}, InvalidParameter{Name: "tolerance"}
	}
	if p.MaxIterations <= 0 {
		return AssignedValue{}, InvalidParameter{Name: "max_iterations"}
	}

	res, err := ptstat.Run(dataset.Results, p.Tolerance, p.MaxIterations)
	if err != nil {
		return AssignedValue{}, err
	}

	uxpt := 0.0
	if res.Sigma > 0 {
		uxpt = 1.25 * res.Sigma / math.Sqrt(float64(res.PUsed))
	}

	sStar := res.Sigma
	pUsed := res.PUsed
	iterations := res.Iterations
	converged := res.Converged

	return AssignedValue{
		Method:     MethodA,
		XPt:        res.Mu,
		UXPt:       uxpt,
		SStar:      &sStar,
		PUsed:      &pUsed,
		Iterations: &iterations,
		Converged:  &converged,
	}, nil
}
