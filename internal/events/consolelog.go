package events

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pt-lab/isopt/pkg/obsname"
)

// ConsoleLogger subscribes to a Bus and writes one structured line per
// event to w until the bus shuts down. Run blocks; call it in its own
// goroutine and close done when it returns so Bus.Shutdown can proceed.
type ConsoleLogger struct {
	w io.Writer
}

// NewConsoleLogger returns a ConsoleLogger writing to w.
func NewConsoleLogger(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{w: w}
}

// Run drains ch until it is closed, writing one line per event, then
// closes done.
func (l *ConsoleLogger) Run(ch chan Event, done chan struct{}) {
	defer close(done)
	for ev := range ch {
		fmt.Fprintln(l.w, l.render(ev))
	}
}

func (l *ConsoleLogger) render(ev Event) string {
	switch d := ev.Data.(type) {
	case RowDroppedData:
		return obsname.New("row_dropped", map[string]string{
			"round":  d.RoundID,
			"index":  strconv.Itoa(d.Index),
			"reason": d.Reason,
		}).String()
	case NonConvergedData:
		return obsname.New("non_converged", map[string]string{
			"round":      d.RoundID,
			"iterations": strconv.Itoa(d.Iterations),
		}).String()
	case RoundComputedData:
		return obsname.New("round_computed", map[string]string{
			"round":  d.RoundID,
			"method": d.Method,
		}).String()
	case RoundFailedData:
		n := obsname.New("round_failed", map[string]string{"round": d.RoundID})
		if d.Err != nil {
			n = n.WithMetadata(map[string]string{"error": d.Err.Error()})
		}
		return n.String()
	default:
		return obsname.New(string(ev.EventType), nil).String()
	}
}
