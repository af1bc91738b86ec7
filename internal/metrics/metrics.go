// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory for tests.
type Recorder interface {
	// Contact submission metrics
	IncContactSubmitted()
	IncContactRejected(reason string) // reason: "missing_fields", "validation", "rate_limited"

	// Persistence metrics
	IncPersistFailure(op string) // op: "create", "list", "get"
	ObservePersistDuration(duration time.Duration)

	// Owner notification metrics
	IncNotification(status string) // status: "delivered", "retried", "failed", "dropped"

	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
