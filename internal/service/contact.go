// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/folio/folio/internal/docstore"
	"github.com/folio/folio/internal/metrics"
	"github.com/folio/folio/internal/model"
	"github.com/folio/folio/internal/repository"
	"github.com/folio/folio/internal/security"
	"github.com/oklog/ulid/v2"
)

// Service errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrContactNotFound = errors.New("contact message not found")
	ErrPersistence     = errors.New("contact store unavailable")
)

// DefaultPersistTimeout bounds a single store operation when none is configured.
const DefaultPersistTimeout = 5 * time.Second

// ContactStore is the persistence contract shared by the PostgreSQL,
// MongoDB and in-memory backends.
type ContactStore interface {
	CreateContact(ctx context.Context, msg *model.ContactMessage) error
	ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error)
	Ping(ctx context.Context) error
}

// Notifier receives stored messages for out-of-band delivery.
// Enqueue must not block.
type Notifier interface {
	Enqueue(msg *model.ContactMessage) bool
}

// ContactServiceConfig wires a ContactService.
type ContactServiceConfig struct {
	Store          ContactStore
	Notifier       Notifier
	Sanitizer      *security.Sanitizer
	Metrics        metrics.Recorder
	Logger         *slog.Logger
	PersistTimeout time.Duration
}

// ContactService handles contact message business logic.
type ContactService struct {
	store          ContactStore
	notifier       Notifier
	sanitizer      *security.Sanitizer
	metrics        metrics.Recorder
	logger         *slog.Logger
	persistTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewContactService creates a new ContactService.
func NewContactService(cfg ContactServiceConfig) *ContactService {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sanitizer := cfg.Sanitizer
	if sanitizer == nil {
		sanitizer = security.NewSanitizer()
	}
	timeout := cfg.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}

	return &ContactService{
		store:          cfg.Store,
		notifier:       cfg.Notifier,
		sanitizer:      sanitizer,
		metrics:        recorder,
		logger:         logger.With("component", "contact_service"),
		persistTimeout: timeout,
		now:            time.Now,
		newID:          func() string { return ulid.Make().String() },
	}
}

// SubmitContact validates, stores and acknowledges a contact submission.
// Validation failures wrap ErrValidation together with the model error;
// store failures and timeouts wrap ErrPersistence.
func (s *ContactService) SubmitContact(ctx context.Context, input model.ContactInput) (*model.ContactMessage, error) {
	input.Name = s.sanitizer.StripMarkup(input.Name)
	input.Message = s.sanitizer.StripMarkup(input.Message)
	input = input.Normalize()

	if err := input.Validate(); err != nil {
		reason := "validation"
		if errors.Is(err, model.ErrMissingFields) {
			reason = "missing_fields"
		}
		s.metrics.IncContactRejected(reason)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	msg := &model.ContactMessage{
		ID:        s.newID(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	opCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.CreateContact(opCtx, msg)
	s.metrics.ObservePersistDuration(time.Since(start))
	if err != nil {
		return nil, s.persistenceError(ctx, "create", err)
	}

	s.metrics.IncContactSubmitted()
	s.logger.InfoContext(ctx, "contact message stored", slog.String("contact_id", msg.ID))

	if s.notifier != nil {
		s.notifier.Enqueue(msg)
	}

	return msg, nil
}

// ListContacts returns stored messages newest-first.
// A positive limit caps the result; zero or less returns every message.
func (s *ContactService) ListContacts(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	if limit < 0 {
		limit = 0
	}
	return s.list(ctx, limit)
}

// ListAllContacts returns every stored message newest-first.
func (s *ContactService) ListAllContacts(ctx context.Context) ([]*model.ContactMessage, error) {
	return s.list(ctx, 0)
}

func (s *ContactService) list(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	contacts, err := s.store.ListContacts(opCtx, model.ContactListOptions{Limit: limit})
	if err != nil {
		return nil, s.persistenceError(ctx, "list", err)
	}
	return contacts, nil
}

// GetContact returns a single message by id.
func (s *ContactService) GetContact(ctx context.Context, id string) (*model.ContactMessage, error) {
	if id == "" {
		return nil, ErrContactNotFound
	}

	opCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	msg, err := s.store.GetContactByID(opCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, s.persistenceError(ctx, "get", err)
	}
	return msg, nil
}

// Ping reports whether the store is reachable within the persist timeout.
func (s *ContactService) Ping(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	return s.store.Ping(opCtx)
}

func (s *ContactService) persistenceError(ctx context.Context, op string, err error) error {
	s.metrics.IncPersistFailure(op)
	s.logger.ErrorContext(ctx, "contact store operation failed",
		slog.String("op", op),
		slog.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
