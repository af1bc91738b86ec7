package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/folio/folio/internal/export"
	"github.com/folio/folio/internal/handler/dto"
	"github.com/folio/folio/internal/middleware"
	"github.com/folio/folio/internal/model"
	"github.com/folio/folio/internal/service"
)

// Client-facing messages.
const (
	msgSent          = "Message sent successfully!"
	msgInvalidBody   = "Invalid request body"
	msgBodyTooLarge  = "Request body too large"
	msgSendFailed    = "Error sending message. Please try again."
	msgFetchFailed   = "Error fetching messages"
	msgFetchOne      = "Error fetching message"
	msgNotFound      = "Message not found"
	msgRoutesWorking = "Contact routes are working!"
	msgInternal      = "Internal server error"
)

// ContactService is the subset of service.ContactService used by the handlers.
type ContactService interface {
	SubmitContact(ctx context.Context, input model.ContactInput) (*model.ContactMessage, error)
	ListContacts(ctx context.Context, limit int) ([]*model.ContactMessage, error)
	ListAllContacts(ctx context.Context) ([]*model.ContactMessage, error)
	GetContact(ctx context.Context, id string) (*model.ContactMessage, error)
}

// ContactHandler handles HTTP requests for contact messages.
type ContactHandler struct {
	svc    ContactService
	logger *slog.Logger
	now    func() time.Time
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(svc ContactService, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{
		svc:    svc,
		logger: logger.With("component", "contact_handler"),
		now:    time.Now,
	}
}

// Create handles POST /api/contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	msg, err := h.svc.SubmitContact(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err, msgSendFailed)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateContactResponse{
		Success: true,
		Message: msgSent,
		Data:    dto.ToContactSummary(msg),
	})
}

// List handles GET /api/contact.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Validation error: limit must be a positive integer")
			return
		}
		limit = parsed
	}

	msgs, err := h.svc.ListContacts(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchFailed)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(msgs))
}

// Get handles GET /api/contact/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	msg, err := h.svc.GetContact(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchOne)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContactDetailResponse{
		Success: true,
		Data:    dto.ToContactResponse(msg),
	})
}

// Test handles GET /api/contact/test.
func (h *ContactHandler) Test(w http.ResponseWriter, r *http.Request) {
	ts := h.now().UTC()
	writeJSON(w, http.StatusOK, dto.StatusResponse{
		Success:   true,
		Message:   msgRoutesWorking,
		Timestamp: &ts,
	})
}

// Export handles GET /api/contact/export.
// The workbook is rendered in full before any bytes are sent so that a
// store failure still produces a JSON error.
func (h *ContactHandler) Export(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListAllContacts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchFailed)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, msgs); err != nil {
		h.logger.ErrorContext(r.Context(), "export render failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleServiceError maps service errors to HTTP responses.
// failMsg is the client message used for store failures on this route.
func (h *ContactHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, model.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "All fields are required: name, email, and message")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "Validation error: "+validationDetail(err))
	case errors.Is(err, service.ErrContactNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrPersistence):
		h.logger.ErrorContext(r.Context(), "contact store unavailable",
			slog.String("request_id", requestID),
			slog.String("path", r.URL.Path),
		)
		writeError(w, http.StatusServiceUnavailable, failMsg)
	default:
		h.logger.ErrorContext(r.Context(), "internal_error",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// validationDetail returns the model error text behind an ErrValidation.
func validationDetail(err error) string {
	detail := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	var tooLong *model.FieldTooLongError
	if errors.As(err, &tooLong) {
		detail = tooLong.Error()
	}
	return detail
}
