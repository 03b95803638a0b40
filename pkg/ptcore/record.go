package ptcore

import "encoding/json"

// droppedRowJSON mirrors DroppedRow's wire shape from spec.md §6.2.
type droppedRowJSON struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// resultsRecordJSON mirrors ResultsRecord's wire shape from spec.md
// §6.2. Optional fields are pointers with omitempty, so an absent value
// is left out of the JSON object rather than written as a zero value
// indistinguishable from "computed as zero". Absent per-participant
// entries inside the score and uncertainty arrays serialize as null.
type resultsRecordJSON struct {
	Method     Method   `json:"method"`
	XPt        float64  `json:"x_pt"`
	UXPt       float64  `json:"u_x_pt"`
	SStar      *float64 `json:"s_star,omitempty"`
	PUsed      *int     `json:"p_used,omitempty"`
	Iterations *int     `json:"iterations,omitempty"`
	Converged  *bool    `json:"converged,omitempty"`
	SigmaPt    *float64 `json:"sigma_pt,omitempty"`

	Ids           []string   `json:"ids"`
	Results       []float64  `json:"results"`
	Uncertainties []*float64 `json:"uncertainties,omitempty"`

	ZScores    []*float64 `json:"z_scores"`
	ZetaScores []*float64 `json:"zeta_scores"`

	DroppedRows []droppedRowJSON `json:"dropped_rows"`
}

// MarshalJSON implements the results-record wire format of spec.md
// §6.2, consumed by the external report renderer as an intermediate
// JSON file.
func (r ResultsRecord) MarshalJSON() ([]byte, error) {
	dropped := make([]droppedRowJSON, len(r.DroppedRows))
	for i, d := range r.DroppedRows {
		dropped[i] = droppedRowJSON{Index: d.Index, Reason: d.Reason}
	}

	return json.Marshal(resultsRecordJSON{
		Method:        r.Method,
		XPt:           r.XPt,
		UXPt:          r.UXPt,
		SStar:         r.SStar,
		PUsed:         r.PUsed,
		Iterations:    r.Iterations,
		Converged:     r.Converged,
		SigmaPt:       r.SigmaPt,
		Ids:           r.Ids,
		Results:       r.Results,
		Uncertainties: r.Uncertainties,
		ZScores:       r.Scores.Z,
		ZetaScores:    r.Scores.Zeta,
		DroppedRows:   dropped,
	})
}

// UnmarshalJSON implements the inverse of MarshalJSON, used by the
// report-only CLI subcommand to reload a previously computed record.
func (r *ResultsRecord) UnmarshalJSON(data []byte) error {
	var raw resultsRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dropped := make([]DroppedRow, len(raw.DroppedRows))
	for i, d := range raw.DroppedRows {
		dropped[i] = DroppedRow{Index: d.Index, Reason: d.Reason}
	}

	*r = ResultsRecord{
		Method:        raw.Method,
		XPt:           raw.XPt,
		UXPt:          raw.UXPt,
		SStar:         raw.SStar,
		PUsed:         raw.PUsed,
		Iterations:    raw.Iterations,
		Converged:     raw.Converged,
		SigmaPt:       raw.SigmaPt,
		Ids:           raw.Ids,
		Results:       raw.Results,
		Uncertainties: raw.Uncertainties,
		Scores:        ScoreVector{Z: raw.ZScores, Zeta: raw.ZetaScores},
		DroppedRows:   dropped,
	}
	return nil
}

// RoundSummary is a privacy-preserving projection of a ResultsRecord
// used only by the telemetry collaborator. It never carries participant
// ids, results, or uncertainties.
type RoundSummary struct {
	RoundID          string  `json:"round_id"`
	Method           Method  `json:"method"`
	XPt              float64 `json:"x_pt"`
	UXPt             float64 `json:"u_x_pt"`
	Converged        *bool   `json:"converged,omitempty"`
	PUsed            *int    `json:"p_used,omitempty"`
	ParticipantCount int     `json:"participant_count"`
	TimestampUnix    int64   `json:"timestamp_unix"`
}

// Summarize projects a ResultsRecord into its telemetry-safe summary.
func Summarize(roundId string, r ResultsRecord, timestampUnix int64) RoundSummary {
	return RoundSummary{
		RoundID:          roundId,
		Method:           r.Method,
		XPt:              r.XPt,
		UXPt:             r.UXPt,
		Converged:        r.Converged,
		PUsed:            r.PUsed,
		ParticipantCount: len(r.Ids),
		TimestampUnix:    timestampUnix,
	}
}
