package events

// RowDroppedData is the payload of a RowDropped event.
type RowDroppedData struct {
	RoundID string
	Index   int
	Reason  string
}

// NonConvergedData is the payload of a NonConverged event.
type NonConvergedData struct {
	RoundID    string
	Iterations int
}

// RoundComputedData is the payload of a RoundComputed event.
type RoundComputedData struct {
	RoundID string
	Method  string
}

// RoundFailedData is the payload of a RoundFailed event.
type RoundFailedData struct {
	RoundID string
	Err     error
}

// PublishRowDropped notifies subscribers that a row was excluded during
// validation.
func PublishRowDropped(b *Bus, roundID string, index int, reason string) {
	b.Dispatch(Event{EventType: RowDropped, Data: RowDroppedData{RoundID: roundID, Index: index, Reason: reason}})
}

// PublishNonConverged notifies subscribers that Algorithm A exhausted
// its iteration cap without converging.
func PublishNonConverged(b *Bus, roundID string, iterations int) {
	b.Dispatch(Event{EventType: NonConverged, Data: NonConvergedData{RoundID: roundID, Iterations: iterations}})
}

// PublishRoundComputed notifies subscribers that a round finished
// successfully.
func PublishRoundComputed(b *Bus, roundID, method string) {
	b.Dispatch(Event{EventType: RoundComputed, Data: RoundComputedData{RoundID: roundID, Method: method}})
}

// PublishRoundFailed notifies subscribers that a round failed, also
// broadcasting on the error topic so an error-reporting subscriber can
// register for failures only.
func PublishRoundFailed(b *Bus, roundID string, err error) {
	b.Dispatch(Event{EventType: RoundFailed, Data: RoundFailedData{RoundID: roundID, Err: err}}, OnErrorTopic())
}
