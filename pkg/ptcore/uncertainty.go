package ptcore

import "math"

// ExpertUncertaintyFromResults computes the standard error of the mean
// of a set of expert-laboratory results, for use as the u_exp input to
// the Expert method when a caller has several expert results instead of
// a single supplied uncertainty. It does not change the Expert method's
// contract in Dispatch, which still requires a supplied value/
// uncertainty pair — this only helps a caller produce one.
//
// n=1 returns 0, matching the convention that a single observation
// carries no estimate of spread.
func ExpertUncertaintyFromResults(results []float64) (float64, error) {
	n := len(results)
	if n == 0 {
		return 0, EmptyDataset{}
	}
	if n == 1 {
		return 0, nil
	}

	mean := 0.0
	for _, x := range results {
		mean += x
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, x := range results {
		d := x - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(n-1))
	return stddev / math.Sqrt(float64(n)), nil
}
