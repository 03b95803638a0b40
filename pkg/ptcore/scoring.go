package ptcore

import "math"

// Score computes the z and ζ score vectors for a dataset against an
// assigned value. sigmaPt is nil when no fitness-for-purpose standard
// deviation was configured. The engine never fails on a per-row basis:
// a score that lacks a well-defined denominator is represented as a nil
// entry, not zero and not an error.
func Score(dataset Dataset, av AssignedValue, sigmaPt *float64) ScoreVector {
	n := dataset.Len()
	z := make([]*float64, n)
	zeta := make([]*float64, n)

	for i, x := range dataset.Results {
		if sigmaPt != nil && *sigmaPt > 0 {
			v := (x - av.XPt) / (*sigmaPt)
			z[i] = &v
		}

		var ui *float64
		if i < len(dataset.Uncertainties) {
			ui = dataset.Uncertainties[i]
		}
		if ui == nil {
			continue
		}
		d2 := (*ui)*(*ui) + av.UXPt*av.UXPt
		if d2 == 0 {
			continue
		}
		v := (x - av.XPt) / math.Sqrt(d2)
		zeta[i] = &v
	}

	return ScoreVector{Z: z, Zeta: zeta}
}

// InterpretZ classifies a z-score per ISO 13528 convention: |z| <= 2 is
// satisfactory, <= 3 is questionable, otherwise unsatisfactory. It is a
// presentation helper only; the scoring engine's numeric contract in
// Score is unaffected.
func InterpretZ(z float64) string {
	abs := math.Abs(z)
	switch {
	case abs <= 2:
		return "Satisfactory"
	case abs <= 3:
		return "Questionable"
	default:
		return "Unsatisfactory"
	}
}

// InterpretZeta classifies a ζ-score: |ζ| <= 2 is satisfactory,
// otherwise unsatisfactory. ISO 13528 does not define a "questionable"
// band for ζ.
func InterpretZeta(zeta float64) string {
	if math.Abs(zeta) <= 2 {
		return "Satisfactory"
	}
	return "Unsatisfactory"
}
