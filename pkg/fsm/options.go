package fsm

// MachineOption configures a Machine at construction time.
type MachineOption func(m *Machine) error

// WithTransitions adds every edge produced by one or more T(from, to...)
// calls, e.g. NewMachine(StateReceived, WithTransitions(T(StateReceived,
// StateValidated, StateFailed))).
func WithTransitions(transitions ...[]Transition) MachineOption {
	return func(m *Machine) error {
		trans := flatten(transitions)
		for _, t := range trans {
			m.allowable[t.From] = append(m.allowable[t.From], t.To)
		}
		return nil
	}
}
