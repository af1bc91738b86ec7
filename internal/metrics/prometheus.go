package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on top of client_golang collectors.
type PrometheusRecorder struct {
	contactsSubmitted prometheus.Counter
	contactsRejected  *prometheus.CounterVec
	persistFailures   *prometheus.CounterVec
	persistDuration   prometheus.Histogram
	notifications     *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewPrometheus creates a PrometheusRecorder and registers its collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	p := &PrometheusRecorder{
		contactsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_contacts_submitted_total",
			Help: "Contact messages stored successfully.",
		}),
		contactsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_contacts_rejected_total",
			Help: "Contact submissions rejected before persistence.",
		}, []string{"reason"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_persist_failures_total",
			Help: "Store operations that failed or timed out.",
		}, []string{"op"}),
		persistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_persist_duration_seconds",
			Help:    "Duration of contact message writes.",
			Buckets: prometheus.DefBuckets,
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_notifications_total",
			Help: "Owner notifications by outcome.",
		}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		p.contactsSubmitted,
		p.contactsRejected,
		p.persistFailures,
		p.persistDuration,
		p.notifications,
		p.httpDuration,
	)

	return p
}

// IncContactSubmitted increments the stored-submission counter.
func (p *PrometheusRecorder) IncContactSubmitted() {
	p.contactsSubmitted.Inc()
}

// IncContactRejected increments the rejection counter for reason.
func (p *PrometheusRecorder) IncContactRejected(reason string) {
	p.contactsRejected.WithLabelValues(reason).Inc()
}

// IncPersistFailure increments the persistence failure counter for op.
func (p *PrometheusRecorder) IncPersistFailure(op string) {
	p.persistFailures.WithLabelValues(op).Inc()
}

// ObservePersistDuration records a store write duration.
func (p *PrometheusRecorder) ObservePersistDuration(duration time.Duration) {
	p.persistDuration.Observe(duration.Seconds())
}

// IncNotification increments the notification counter for status.
func (p *PrometheusRecorder) IncNotification(status string) {
	p.notifications.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records request latency.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
