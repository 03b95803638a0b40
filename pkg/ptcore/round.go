package ptcore

import "github.com/pt-lab/isopt/pkg/fsm"

const (
	StateReceived  fsm.State = "Received"
	StateValidated fsm.State = "Validated"
	StateComputed  fsm.State = "Computed"
	StateScored    fsm.State = "Scored"
	StateDone      fsm.State = "Done"
	StateFailed    fsm.State = "Failed"
)

// newRoundMachine builds the state guard for a single round:
// Received -> Validated -> Computed -> Scored -> Done, with Failed
// reachable from any non-terminal state. It exists to reject programmer errors
// (scoring before an assigned value exists) within one synchronous
// call; it never spans calls and holds no goroutines.
func newRoundMachine() (*fsm.Machine, error) {
	return fsm.NewMachine(StateReceived, fsm.WithTransitions(
		fsm.T(StateReceived, StateValidated, StateFailed),
		fsm.T(StateValidated, StateComputed, StateFailed),
		fsm.T(StateComputed, StateScored, StateFailed),
		fsm.T(StateScored, StateDone, StateFailed),
	))
}

// Round drives one proficiency-testing round through validation,
// assigned-value dispatch, and scoring, guarded by an explicit state
// machine so that calling its methods out of order is a caught
// programmer error rather than a silent inconsistency.
type Round struct {
	machine *fsm.Machine

	dataset Dataset
	sigmaPt *float64

	assigned AssignedValue
	scores   ScoreVector

	droppedRows []DroppedRow
}

// NewRound starts a round in the Received state for a validated
// dataset. droppedRows carries diagnostics accumulated by the
// validation kernel before the dataset reached the core.
func NewRound(dataset Dataset, sigmaPt *float64, droppedRows []DroppedRow) (*Round, error) {
	m, err := newRoundMachine()
	if err != nil {
		return nil, err
	}
	return &Round{
		machine:     m,
		dataset:     dataset,
		sigmaPt:     sigmaPt,
		droppedRows: droppedRows,
	}, nil
}

// MarkValidated transitions Received -> Validated. It exists as an
// explicit step so a caller who skips validation (e.g. by constructing
// a Round directly from untrusted input) trips a TransitionNotAllowed
// rather than silently computing a value.
func (r *Round) MarkValidated() error {
	if err := r.machine.Transition(StateValidated); err != nil {
		return err
	}
	return nil
}

// Compute runs the method dispatcher, transitioning Validated -> Computed
// on success or Validated -> Failed on error.
func (r *Round) Compute(method Method, algoParams AlgorithmAParams, supplied *SuppliedValue) error {
	av, err := Dispatch(method, r.dataset, algoParams, supplied)
	if err != nil {
		if ferr := r.machine.Transition(StateFailed); ferr != nil {
			return ferr
		}
		return err
	}
	r.assigned = av
	return r.machine.Transition(StateComputed)
}

// ScoreRound runs the scoring engine, transitioning Computed -> Scored.
func (r *Round) ScoreRound() error {
	r.scores = Score(r.dataset, r.assigned, r.sigmaPt)
	return r.machine.Transition(StateScored)
}

// Finish transitions Scored -> Done and returns the completed results
// record.
func (r *Round) Finish() (ResultsRecord, error) {
	if err := r.machine.Transition(StateDone); err != nil {
		return ResultsRecord{}, err
	}
	return ResultsRecord{
		Method:        r.assigned.Method,
		XPt:           r.assigned.XPt,
		UXPt:          r.assigned.UXPt,
		SStar:         r.assigned.SStar,
		PUsed:         r.assigned.PUsed,
		Iterations:    r.assigned.Iterations,
		Converged:     r.assigned.Converged,
		SigmaPt:       r.sigmaPt,
		Ids:           r.dataset.Ids,
		Results:       r.dataset.Results,
		Uncertainties: r.dataset.Uncertainties,
		Scores:        r.scores,
		DroppedRows:   r.droppedRows,
	}, nil
}

// State returns the round's current lifecycle state.
func (r *Round) State() fsm.State {
	return r.machine.State()
}

// RunRound is the convenience entry point that drives a Round through
// its full lifecycle in one call, matching spec's "one round, one
// top-to-bottom pass" contract.
func RunRound(dataset Dataset, sigmaPt *float64, droppedRows []DroppedRow, method Method, algoParams AlgorithmAParams, supplied *SuppliedValue) (ResultsRecord, error) {
	r, err := NewRound(dataset, sigmaPt, droppedRows)
	if err != nil {
		return ResultsRecord{}, err
	}
	if err := r.MarkValidated(); err != nil {
		return ResultsRecord{}, err
	}
	if err := r.Compute(method, algoParams, supplied); err != nil {
		return ResultsRecord{}, err
	}
	if err := r.ScoreRound(); err != nil {
		return ResultsRecord{}, err
	}
	return r.Finish()
}
