// Package telemetry ships an anonymous RoundSummary to a configured
// collector after a successful calculate invocation. Sending happens in
// the background with exponential backoff; a failure is reported to an
// ErrorReporter and never fails the invocation that triggered it.
package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/pt-lab/isopt/pkg/ptcore"
)

// Ack is the collector's acknowledgement of a received round summary.
type Ack struct {
	Success bool `json:"success"`
}

// Config carries the collector endpoint's connection settings.
type Config struct {
	Host     string
	Insecure bool
}

// Reporter sends RoundSummary values to a collector.
type Reporter interface {
	Send(summary ptcore.RoundSummary)
	Wait() error
}

// grpcReporter implements Reporter over a grpc channel using a
// hand-rolled JSON codec rather than a .proto-generated client. send is
// a seam for tests: New wires it to dial, but a test can substitute a
// fake to exercise Send's timeout/cancel/error-reporting logic without
// a network round trip.
type grpcReporter struct {
	cfg     Config
	errors  ErrorReporter
	wg      sync.WaitGroup
	send    func(summary ptcore.RoundSummary) error
	timeout time.Duration
}

// New returns a Reporter that sends to cfg.Host, reporting send
// failures through errors.
func New(cfg Config, errors ErrorReporter) Reporter {
	r := &grpcReporter{cfg: cfg, errors: errors, timeout: 30 * time.Second}
	r.send = r.dial
	return r
}

// Send transmits summary in the background, retrying with exponential
// backoff, bounded by a fixed timeout after which the attempt is
// cancelled and reported as a failure.
func (r *grpcReporter) Send(summary ptcore.RoundSummary) {
	result := make(chan error, 1)
	cancel := make(chan bool, 1)
	timeout := time.After(r.timeout)

	go r.sendBackground(summary, result, cancel)

	select {
	case err := <-result:
		if err != nil {
			r.errors.ReportError(err)
		}
	case <-timeout:
		cancel <- true
		r.errors.ReportError(fmt.Errorf("telemetry: timeout sending round summary for round %s", summary.RoundID))
	}
}

func (r *grpcReporter) sendBackground(summary ptcore.RoundSummary, result chan error, cancel chan bool) {
	r.wg.Add(1)
	defer r.wg.Done()

	attempt := func() error { return r.send(summary) }

	select {
	case result <- backoff.Retry(attempt, backoff.NewExponentialBackOff()):
	case <-cancel:
	}
}

// dial opens a grpc connection to the configured collector and invokes
// the round-summary RPC directly (bypassing a .proto-generated client,
// see jsonCodec).
func (r *grpcReporter) dial(summary ptcore.RoundSummary) error {
	opts := []grpc.DialOption{grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName))}
	if r.cfg.Insecure {
		opts = append(opts, grpc.WithInsecure())
	} else {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))
	}

	conn, err := grpc.Dial(r.cfg.Host, opts...)
	if err != nil {
		return err
	}
	defer conn.Close()

	var ack Ack
	if err := conn.Invoke(context.Background(), "/isopt.telemetry.Collector/ReportRoundSummary", summary, &ack); err != nil {
		return err
	}
	if !ack.Success {
		return fmt.Errorf("telemetry: collector rejected round summary for round %s", summary.RoundID)
	}
	return nil
}

// Wait blocks until every in-flight Send has returned.
func (r *grpcReporter) Wait() error {
	r.wg.Wait()
	return nil
}
