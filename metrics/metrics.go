// Package metrics defines the recording surface for checkout flow
// instrumentation, with a prometheus adapter and a no-op default.
package metrics

import "time"

// Recorder counts checkout events and observes operation latency. The
// label set is small and fixed: "screen" on events, "operation" on
// latencies, plus "coin"/"chain" for the active selection where known.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
