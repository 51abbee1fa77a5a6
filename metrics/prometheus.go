package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder records checkout events and latencies to prometheus.
type PrometheusRecorder struct {
	events    *prometheus.CounterVec
	latencies *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the checkout collectors on the default
// registry.
func NewPrometheusRecorder() Recorder {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "events_total",
			Help:      "Checkout flow event counters",
		},
		[]string{"type", "screen"},
	)

	latencies := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "checkout",
			Name:      "operation_seconds",
			Help:      "Checkout collaborator operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "coin", "chain"},
	)

	prometheus.MustRegister(events, latencies)

	return &PrometheusRecorder{
		events:    events,
		latencies: latencies,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.events.With(prometheus.Labels{
		"type":   name,
		"screen": labels["screen"],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.latencies.With(prometheus.Labels{
		"operation": name,
		"coin":      labels["coin"],
		"chain":     labels["chain"],
	}).Observe(d.Seconds())
}
