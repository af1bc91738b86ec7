package middleware

import (
	"net/http"
	"time"

	"github.com/folio/folio/internal/metrics"
)

// Metrics records request duration per chi route pattern.
// Requests that match no route are grouped under "unmatched" to bound label cardinality.
func Metrics(rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := wrapResponseWriter(w)

			next.ServeHTTP(sr, r)

			rec.ObserveHTTPRequest(r.Method, routePattern(r), sr.status, time.Since(start))
		})
	}
}
