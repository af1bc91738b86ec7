// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/folio/folio/internal/handler/dto"
)

// Handler serves the service-level endpoints that sit outside any resource.
type Handler struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, now: time.Now}
}

// InfoResponse describes the running service.
type InfoResponse struct {
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}

// Info reports that the API is up and lists its routes.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message:   "Folio contact API is running!",
		Timestamp: h.now().UTC(),
		Endpoints: map[string]string{
			"submitContact":  "POST /api/contact",
			"listContacts":   "GET /api/contact",
			"getContact":     "GET /api/contact/{id}",
			"exportContacts": "GET /api/contact/export",
			"health":         "GET /health",
		},
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "route not found",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeError(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "method not allowed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Debug("response encode failed", "error", err)
	}
}

// writeError writes the JSON error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Success: false, Message: message})
}
