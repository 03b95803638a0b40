// Package validate implements the input validation kernel: it turns a
// raw tabular frame into the numeric vectors pkg/ptcore requires,
// applying the deterministic column-mapping, coercion, and row-drop
// rules a proficiency-testing round demands.
package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/pt-lab/isopt/pkg/ptcore"
	"github.com/pt-lab/isopt/pkg/rowlog"
)

// ColumnMapping names the caller-supplied columns of a raw table.
// UncertaintyCol is optional; an empty string means no uncertainty
// column was supplied.
type ColumnMapping struct {
	IDCol          string
	ResultCol      string
	UncertaintyCol string
}

// Row is one record of the raw input table, keyed by column name. Cell
// values are strings; coercion to float64 happens inside Validate.
type Row map[string]string

// Result is the output of the validation kernel: a dataset ready for
// pkg/ptcore, plus the accumulated diagnostics for rows that were
// dropped rather than causing a hard failure.
type Result struct {
	Dataset     ptcore.Dataset
	DroppedRows []ptcore.DroppedRow

	// SourceIndex maps each retained dataset position back to its
	// original row index in rows, so downstream scores can be
	// realigned with the original table.
	SourceIndex []int
}

// diagnosticsCapacity bounds the rowlog queue used while accumulating
// dropped-row diagnostics; a validation pass over a pathological table
// should never grow this buffer without bound.
const diagnosticsCapacity = 10000

// Validate runs the deterministic pipeline of column presence check,
// type coercion, row-drop policy, id normalization, and minimum-size
// check over rows, returning a validated Dataset or the first
// structural error encountered.
func Validate(rows []Row, mapping ColumnMapping) (Result, error) {
	if mapping.IDCol == "" {
		return Result{}, ptcore.MissingColumn{Name: "id_col"}
	}
	if mapping.ResultCol == "" {
		return Result{}, ptcore.MissingColumn{Name: "result_col"}
	}

	if len(rows) > 0 {
		if _, ok := rows[0][mapping.IDCol]; !ok {
			return Result{}, ptcore.MissingColumn{Name: mapping.IDCol}
		}
		if _, ok := rows[0][mapping.ResultCol]; !ok {
			return Result{}, ptcore.MissingColumn{Name: mapping.ResultCol}
		}
		if mapping.UncertaintyCol != "" {
			if _, ok := rows[0][mapping.UncertaintyCol]; !ok {
				return Result{}, ptcore.MissingColumn{Name: mapping.UncertaintyCol}
			}
		}
	}

	diagnostics := rowlog.NewQueue(diagnosticsCapacity)

	var ids []string
	var results []float64
	var uncertainties []*float64
	var sourceIndex []int

	for i, row := range rows {
		idCell := row[mapping.IDCol]
		rawID := strings.TrimSpace(idCell)
		resultCell := row[mapping.ResultCol]
		result, err := coerceFloat(resultCell)
		if err != nil {
			// unparsable cell becomes NaN, subject to the row-drop policy below
			result = math.NaN()
		}

		if math.IsNaN(result) {
			diagnostics.Add(rowlog.Entry{Index: i, Reason: "NaN result"})
			continue
		}
		if math.IsInf(result, 0) {
			return Result{}, ptcore.NonFiniteResult{Row: i, Value: resultCell}
		}

		var u *float64
		if mapping.UncertaintyCol != "" {
			raw, present := row[mapping.UncertaintyCol]
			uval, err := coerceFloat(raw)
			switch {
			case !present || err != nil || math.IsNaN(uval):
				u = nil
			case math.IsInf(uval, 0):
				return Result{}, ptcore.NonFiniteUncertainty{Row: i, Value: raw}
			case uval < 0:
				return Result{}, ptcore.NegativeUncertainty{Row: i, Value: raw}
			default:
				v := uval
				u = &v
			}
		}

		if rawID == "" {
			return Result{}, ptcore.EmptyID{Row: i, Value: idCell}
		}

		ids = append(ids, rawID)
		results = append(results, result)
		uncertainties = append(uncertainties, u)
		sourceIndex = append(sourceIndex, i)
	}

	if len(ids) == 0 {
		return Result{}, ptcore.EmptyDataset{}
	}

	dropped := make([]ptcore.DroppedRow, 0, diagnostics.Len())
	for _, e := range diagnostics.Copy() {
		dropped = append(dropped, ptcore.DroppedRow{Index: e.Index, Reason: e.Reason})
	}

	return Result{
		Dataset: ptcore.Dataset{
			Ids:           ids,
			Results:       results,
			Uncertainties: uncertainties,
		},
		DroppedRows: dropped,
		SourceIndex: sourceIndex,
	}, nil
}

func coerceFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
