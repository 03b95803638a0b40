package telemetry

import (
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pt-lab/isopt/pkg/ptcore"
)

type mockErrorReporter struct {
	reported []error
}

func (m *mockErrorReporter) ReportError(err error) {
	m.reported = append(m.reported, err)
}

func TestSendReportsNoErrorOnSuccess(t *testing.T) {
	r := &grpcReporter{errors: &mockErrorReporter{}, timeout: time.Second}
	r.send = func(ptcore.RoundSummary) error { return nil }

	mock := r.errors.(*mockErrorReporter)
	r.Send(ptcore.RoundSummary{RoundID: "R1"})
	require.NoError(t, r.Wait())
	assert.Empty(t, mock.reported)
}

func TestSendReportsErrorFromFailedAttempt(t *testing.T) {
	// backoff.Permanent stops the retry loop immediately instead of
	// working through the exponential backoff schedule.
	r := &grpcReporter{errors: &mockErrorReporter{}, timeout: time.Second}
	r.send = func(ptcore.RoundSummary) error {
		return backoff.Permanent(fmt.Errorf("collector unreachable"))
	}

	mock := r.errors.(*mockErrorReporter)
	r.Send(ptcore.RoundSummary{RoundID: "R1"})
	require.NoError(t, r.Wait())

	require.Len(t, mock.reported, 1)
	assert.Contains(t, mock.reported[0].Error(), "collector unreachable")
}

func TestSendCancelsOnClientTimeout(t *testing.T) {
	blocked := make(chan struct{})
	r := &grpcReporter{errors: &mockErrorReporter{}, timeout: 50 * time.Millisecond}
	r.send = func(ptcore.RoundSummary) error {
		<-blocked
		return nil
	}

	done := make(chan struct{})
	go func() {
		r.Send(ptcore.RoundSummary{RoundID: "R1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return within its own timeout budget")
	}
	close(blocked)

	mock := r.errors.(*mockErrorReporter)
	require.Len(t, mock.reported, 1)
	assert.Contains(t, mock.reported[0].Error(), "timeout")
}
