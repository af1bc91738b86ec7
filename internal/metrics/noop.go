package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncContactSubmitted is a no-op.
func (n *NoopRecorder) IncContactSubmitted() {}

// IncContactRejected is a no-op.
func (n *NoopRecorder) IncContactRejected(reason string) {}

// IncPersistFailure is a no-op.
func (n *NoopRecorder) IncPersistFailure(op string) {}

// ObservePersistDuration is a no-op.
func (n *NoopRecorder) ObservePersistDuration(duration time.Duration) {}

// IncNotification is a no-op.
func (n *NoopRecorder) IncNotification(status string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
