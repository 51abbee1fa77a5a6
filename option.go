package checkout

import (
	"time"

	"github.com/pymstr/checkout-go/logger"
	"github.com/pymstr/checkout-go/metrics"
	"github.com/pymstr/checkout-go/retry"
)

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the structured logger. Default is a no-op.
func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		m.log = l
	}
}

// WithMetrics sets the metrics recorder. Default is a no-op.
func WithMetrics(r metrics.Recorder) Option {
	return func(m *Machine) {
		m.rec = r
	}
}

// WithRecheckTimeout bounds the funds re-check triggered from the
// confirmation screen.
func WithRecheckTimeout(d time.Duration) Option {
	return func(m *Machine) {
		m.recheckTimeout = d
	}
}

// WithRetryConfig tunes the transient-failure retry applied to the funds
// re-check.
func WithRetryConfig(cfg retry.Config) Option {
	return func(m *Machine) {
		m.recheckRetry = cfg
	}
}

// WithClock overrides the time source used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithExchangeWidgetBase overrides the on-ramp widget base URL used for the
// card and exchange funding hand-offs.
func WithExchangeWidgetBase(base string) Option {
	return func(m *Machine) {
		m.exchangeBase = base
	}
}

// WithReturnNavigator sets the external navigation collaborator invoked by
// the "return to merchant" action on the completed screen.
func WithReturnNavigator(fn func(sessionID string)) Option {
	return func(m *Machine) {
		m.returnTo = fn
	}
}
