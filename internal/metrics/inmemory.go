package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ContactsSubmitted      uint64
	ContactsRejected       map[string]uint64
	PersistFailures        map[string]uint64
	PersistDurationCount   uint64
	PersistDurationTotalNs int64
	Notifications          map[string]uint64
	HTTPRequests           map[string]uint64 // keyed by "METHOD route status"
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	contactsSubmitted      uint64
	persistDurationCount   uint64
	persistDurationTotalNs int64

	mu              sync.Mutex
	rejected        map[string]uint64
	persistFailures map[string]uint64
	notifications   map[string]uint64
	httpRequests    map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		rejected:        make(map[string]uint64),
		persistFailures: make(map[string]uint64),
		notifications:   make(map[string]uint64),
		httpRequests:    make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		ContactsSubmitted:      atomic.LoadUint64(&m.contactsSubmitted),
		ContactsRejected:       copyCounts(m.rejected),
		PersistFailures:        copyCounts(m.persistFailures),
		PersistDurationCount:   atomic.LoadUint64(&m.persistDurationCount),
		PersistDurationTotalNs: atomic.LoadInt64(&m.persistDurationTotalNs),
		Notifications:          copyCounts(m.notifications),
		HTTPRequests:           copyCounts(m.httpRequests),
	}
}

// IncContactSubmitted increments the stored-submission counter.
func (m *InMemoryRecorder) IncContactSubmitted() {
	atomic.AddUint64(&m.contactsSubmitted, 1)
}

// IncContactRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncContactRejected(reason string) {
	m.inc(m.rejected, reason)
}

// IncPersistFailure increments the persistence failure counter for op.
func (m *InMemoryRecorder) IncPersistFailure(op string) {
	m.inc(m.persistFailures, op)
}

// ObservePersistDuration records a store write duration.
func (m *InMemoryRecorder) ObservePersistDuration(duration time.Duration) {
	atomic.AddUint64(&m.persistDurationCount, 1)
	atomic.AddInt64(&m.persistDurationTotalNs, duration.Nanoseconds())
}

// IncNotification increments the notification counter for status.
func (m *InMemoryRecorder) IncNotification(status string) {
	m.inc(m.notifications, status)
}

// ObserveHTTPRequest counts handled requests.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.inc(m.httpRequests, fmt.Sprintf("%s %s %d", method, route, status))
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
