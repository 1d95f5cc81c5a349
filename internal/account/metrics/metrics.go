package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the account module.
// Tracks lifecycle transitions, decode rejections and operation durations.
type Metrics struct {
	Transitions       *prometheus.CounterVec
	DecodeFailures    *prometheus.CounterVec
	SampledAccounts   prometheus.Counter
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the account metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_account_transitions_total",
			Help: "Accounts entering each lifecycle status, by operation",
		}, []string{"operation", "status"}),
		DecodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_decode_failures_total",
			Help: "Account documents rejected by the decoder, by reason",
		}, []string{"reason"}),
		SampledAccounts: factory.NewCounter(prometheus.CounterOpts{
			Name: "accountd_sampled_accounts_total",
			Help: "Random accounts produced by the sample generator",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accountd_operation_duration_seconds",
			Help:    "Duration of account service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementTransition records an account entering status through operation.
func (m *Metrics) IncrementTransition(operation, status string) {
	m.Transitions.WithLabelValues(operation, status).Inc()
}

// IncrementDecodeFailure records a rejected account document.
func (m *Metrics) IncrementDecodeFailure(reason string) {
	m.DecodeFailures.WithLabelValues(reason).Inc()
}

// AddSampled records n generated accounts.
func (m *Metrics) AddSampled(n int) {
	m.SampledAccounts.Add(float64(n))
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
