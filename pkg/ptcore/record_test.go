package ptcore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsRecordJSONRoundTrip(t *testing.T) {
	sStar := 0.179
	pUsed := 5
	iterations := 2
	converged := true
	sigmaPt := 0.1
	u1 := 0.1

	z0 := -2.0
	orig := ResultsRecord{
		Method:        MethodA,
		XPt:           10.0,
		UXPt:          0.1,
		SStar:         &sStar,
		PUsed:         &pUsed,
		Iterations:    &iterations,
		Converged:     &converged,
		SigmaPt:       &sigmaPt,
		Ids:           []string{"L1", "L2"},
		Results:       []float64{9.8, 10.2},
		Uncertainties: []*float64{&u1, nil},
		Scores:        ScoreVector{Z: []*float64{&z0, nil}, Zeta: []*float64{nil, nil}},
		DroppedRows:   []DroppedRow{{Index: 3, Reason: "NaN result"}},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var round ResultsRecord
	require.NoError(t, json.Unmarshal(data, &round))

	assert.Equal(t, orig.Method, round.Method)
	assert.Equal(t, orig.XPt, round.XPt)
	require.NotNil(t, round.SStar)
	assert.Equal(t, *orig.SStar, *round.SStar)
	assert.Equal(t, orig.Ids, round.Ids)
	assert.Equal(t, orig.Results, round.Results)
	require.Len(t, round.Scores.Z, 2)
	require.NotNil(t, round.Scores.Z[0])
	assert.Equal(t, -2.0, *round.Scores.Z[0])
	assert.Nil(t, round.Scores.Z[1])
	require.Len(t, round.DroppedRows, 1)
	assert.Equal(t, orig.DroppedRows[0], round.DroppedRows[0])
}

func TestResultsRecordJSONOmitsAbsentOptionalFields(t *testing.T) {
	rec := ResultsRecord{
		Method:  MethodCRM,
		XPt:     12.34,
		UXPt:    0.05,
		Ids:     []string{"L1"},
		Results: []float64{12.1},
		Scores:  ScoreVector{Z: []*float64{nil}, Zeta: []*float64{nil}},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	_, hasSStar := raw["s_star"]
	_, hasPUsed := raw["p_used"]
	assert.False(t, hasSStar)
	assert.False(t, hasPUsed)
}

func TestSummarizeNeverCarriesParticipantData(t *testing.T) {
	converged := true
	rec := ResultsRecord{
		Method:    MethodA,
		XPt:       10.0,
		UXPt:      0.05,
		Converged: &converged,
		Ids:       []string{"L1", "L2", "L3"},
		Results:   []float64{9.9, 10.0, 10.1},
	}

	summary := Summarize("round-42", rec, 1_700_000_000)

	assert.Equal(t, "round-42", summary.RoundID)
	assert.Equal(t, 3, summary.ParticipantCount)
	assert.Equal(t, rec.XPt, summary.XPt)

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "L1")
	assert.NotContains(t, string(data), "9.9")
}
