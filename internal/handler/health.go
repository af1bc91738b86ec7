package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Database states reported by /health.
const (
	DatabaseConnected    = "Connected"
	DatabaseDisconnected = "Disconnected"
	DatabaseInMemory     = "In-memory"
)

// HealthConfig wires a HealthHandler.
type HealthConfig struct {
	// Store is the contact store. Required.
	Store HealthChecker
	// StoreName labels the store in readiness checks, e.g. "postgres".
	StoreName string
	// InMemory marks a store that is always reachable and loses data on restart.
	InMemory bool
	// Cache is the Redis cache. Nil when not configured.
	Cache HealthChecker
	// Timeout bounds each dependency ping.
	Timeout time.Duration
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	store     HealthChecker
	storeName string
	inMemory  bool
	cache     HealthChecker
	timeout   time.Duration
	now       func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	name := cfg.StoreName
	if name == "" {
		name = "store"
	}
	return &HealthHandler{
		store:     cfg.Store,
		storeName: name,
		inMemory:  cfg.InMemory,
		cache:     cfg.Cache,
		timeout:   timeout,
		now:       time.Now,
	}
}

// StatusResponse is the body of /health.
type StatusResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the probe response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports live store connectivity. It always answers 200 so that
// uptime monitors can read the body; a failed ping shows as DEGRADED.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := StatusResponse{
		Status:    "OK",
		Database:  DatabaseConnected,
		Timestamp: h.now().UTC(),
	}

	switch {
	case h.inMemory:
		resp.Database = DatabaseInMemory
	case h.store == nil || h.store.Ping(ctx) != nil:
		resp.Status = "DEGRADED"
		resp.Database = DatabaseDisconnected
	}

	writeJSON(w, http.StatusOK, resp)
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It checks all dependencies and returns 200 only if all are healthy.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			checks[h.storeName] = "error: " + err.Error()
			healthy = false
		} else {
			checks[h.storeName] = "ok"
		}
	} else {
		checks[h.storeName] = "not configured"
		healthy = false
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
