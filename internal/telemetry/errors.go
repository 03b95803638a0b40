package telemetry

import "github.com/stvp/rollbar"

// SuppressErrorReporting prevents any ErrorReporter constructed by this
// package from sending anonymous stack traces to Rollbar. Set at
// process startup for local development or air-gapped deployments.
var SuppressErrorReporting bool

// ErrorReporter isolates telemetry-send failures from the caller: a
// failed round summary send is reported here and never fails the
// surrounding calculate invocation.
type ErrorReporter interface {
	ReportError(err error)
}

type rollbarReporter struct{}

// NewRollbarReporter configures Rollbar with token and environment and
// returns an ErrorReporter backed by it.
func NewRollbarReporter(token, environment string) ErrorReporter {
	rollbar.Token = token
	if environment == "" {
		environment = "production"
	}
	rollbar.Environment = environment
	return rollbarReporter{}
}

func (rollbarReporter) ReportError(err error) {
	if SuppressErrorReporting || err == nil {
		return
	}
	rollbar.Error(rollbar.ERR, err)
}

// NoopErrorReporter discards every error. Used when telemetry is
// enabled but no Rollbar token is configured.
type NoopErrorReporter struct{}

func (NoopErrorReporter) ReportError(error) {}
