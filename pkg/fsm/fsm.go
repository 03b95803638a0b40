// Package fsm implements the guard a single proficiency-testing round is
// driven through: Received -> Validated -> Computed -> Scored -> Done,
// with Failed reachable from any non-terminal state. pkg/ptcore builds one Machine
// per round so that calling a round's methods out of order (scoring
// before an assigned value exists, say) is a caught TransitionNotAllowed
// rather than a silent inconsistency. A round runs top-to-bottom exactly
// once and is discarded on failure, so the guard has no reset or
// stop-latch behavior to carry.
package fsm

import "fmt"

// State is one stage of a round's lifecycle (e.g. Received, Computed).
type State string

// Machine guards one round through its allowed state graph.
type Machine struct {
	current   State
	allowable map[State][]State
}

// NewMachine returns a Machine starting at initial. Without any
// WithTransitions options it accepts no transitions at all, so a round
// guard is always built with its full edge set up front.
func NewMachine(initial State, opts ...MachineOption) (*Machine, error) {
	machine := &Machine{
		current:   initial,
		allowable: map[State][]State{},
	}
	for _, opt := range opts {
		if err := opt(machine); err != nil {
			return nil, err
		}
	}
	return machine, nil
}

// State returns the round's current lifecycle stage.
func (m *Machine) State() State {
	return m.current
}

// Allowable reports whether the round's guard permits from -> to.
func (m *Machine) Allowable(from, to State) bool {
	return contains(to, m.allowable[from])
}

// Transition advances the round to to, or returns TransitionNotAllowed
// if the round's lifecycle does not permit that edge from its current
// state.
func (m *Machine) Transition(to State) error {
	if !m.Allowable(m.current, to) {
		return TransitionNotAllowed{Msg: fmt.Sprintf("cannot transition from state %s to %s", m.current, to)}
	}
	m.current = to
	return nil
}

func contains(s State, all []State) bool {
	for _, a := range all {
		if s == a {
			return true
		}
	}
	return false
}
