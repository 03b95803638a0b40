package ptcore

import "fmt"

// MissingColumn is returned by the validation kernel when a required
// input column is absent by exact name.
type MissingColumn struct {
	Name string
}

func (e MissingColumn) Error() string {
	return fmt.Sprintf("missing required column %q", e.Name)
}

// NegativeUncertainty is returned when a row's uncertainty cell is
// present and negative. Unlike a NaN result, this is not dropped: it
// indicates malformed data that the caller must fix.
type NegativeUncertainty struct {
	Row   int
	Value string
}

func (e NegativeUncertainty) Error() string {
	return fmt.Sprintf("row %d: uncertainty is negative", e.Row)
}

// Detail returns the offending cell content, for callers (e.g. the CLI's
// verbose mode) that want to show more than Error()'s row number.
func (e NegativeUncertainty) Detail() string {
	return fmt.Sprintf("uncertainty column of row %d contained %q", e.Row, e.Value)
}

// EmptyID is returned when a row's id is blank after trimming.
type EmptyID struct {
	Row   int
	Value string
}

func (e EmptyID) Error() string {
	return fmt.Sprintf("row %d: id is empty", e.Row)
}

// Detail returns the untrimmed id cell content that trimmed to empty.
func (e EmptyID) Detail() string {
	return fmt.Sprintf("id column of row %d contained %q before trimming", e.Row, e.Value)
}

// EmptyDataset is returned when no usable rows remain after filtering.
type EmptyDataset struct{}

func (e EmptyDataset) Error() string {
	return "dataset is empty after filtering"
}

// NonFiniteResult is returned when coercion of a result cell produces
// +/-Inf, distinct from a NaN cell (which is dropped, not an error).
type NonFiniteResult struct {
	Row   int
	Value string
}

func (e NonFiniteResult) Error() string {
	return fmt.Sprintf("row %d: result is not finite", e.Row)
}

// Detail returns the offending cell content that coerced to +/-Inf.
func (e NonFiniteResult) Detail() string {
	return fmt.Sprintf("result column of row %d contained %q", e.Row, e.Value)
}

// NonFiniteUncertainty is returned when coercion of a present
// uncertainty cell produces +/-Inf. The §3 dataset invariant requires
// every present u to be finite and >= 0, so an infinite value is a hard
// error rather than a silently dropped row.
type NonFiniteUncertainty struct {
	Row   int
	Value string
}

func (e NonFiniteUncertainty) Error() string {
	return fmt.Sprintf("row %d: uncertainty is not finite", e.Row)
}

// Detail returns the offending cell content that coerced to +/-Inf.
func (e NonFiniteUncertainty) Detail() string {
	return fmt.Sprintf("uncertainty column of row %d contained %q", e.Row, e.Value)
}

// MissingMethodInput is returned when a non-A method is invoked without
// a supplied value/uncertainty pair.
type MissingMethodInput struct {
	Method Method
}

func (e MissingMethodInput) Error() string {
	return fmt.Sprintf("method %s requires a supplied value and uncertainty", e.Method)
}

// InvalidParameter is returned for out-of-range configuration values:
// tolerance <= 0, max_iterations <= 0, sigma_pt <= 0, or a supplied
// uncertainty < 0.
type InvalidParameter struct {
	Name string
}

func (e InvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %q", e.Name)
}
