package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/folio/folio/internal/metrics"
	"github.com/folio/folio/internal/model"
	"github.com/folio/folio/internal/security"
	"github.com/google/uuid"
)

// EventContactCreated is the event name sent for new contact messages.
const EventContactCreated = "contact.created"

// DefaultRequestTimeout bounds a single delivery attempt.
const DefaultRequestTimeout = 10 * time.Second

// Payload is the JSON body of a notification.
type Payload struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Config configures a Notifier.
type Config struct {
	URL        string
	Secret     string
	QueueSize  int
	Workers    int
	Client     *http.Client // defaults to an SSRF-guarded client
	Logger     *slog.Logger
	Metrics    metrics.Recorder
	RetryDelay func(attempt int) time.Duration
}

// Notifier posts signed notifications through a bounded queue drained by a
// fixed worker pool. A full queue drops the notification.
type Notifier struct {
	url        string
	secret     string
	client     *http.Client
	logger     *slog.Logger
	metrics    metrics.Recorder
	retryDelay func(int) time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan *model.ContactMessage

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Notifier and starts its workers.
func New(cfg Config) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Client == nil {
		cfg.Client = security.NewSafeClient(DefaultRequestTimeout)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.RetryDelay == nil {
		cfg.RetryDelay = NextRetryDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		url:        cfg.URL,
		secret:     cfg.Secret,
		client:     cfg.Client,
		logger:     cfg.Logger.With("component", "notify"),
		metrics:    cfg.Metrics,
		retryDelay: cfg.RetryDelay,
		queue:      make(chan *model.ContactMessage, cfg.QueueSize),
		runCtx:     ctx,
		cancel:     cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		n.wg.Add(1)
		go n.worker()
	}

	return n
}

// Enqueue schedules msg for delivery without blocking.
// It reports false when the queue is full or the notifier is shut down.
func (n *Notifier) Enqueue(msg *model.ContactMessage) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.metrics.IncNotification("dropped")
		return false
	}

	select {
	case n.queue <- msg:
		return true
	default:
		n.metrics.IncNotification("dropped")
		n.logger.Warn("notification queue full, dropping", slog.String("contact_id", msg.ID))
		return false
	}
}

// Shutdown stops accepting notifications and waits for queued ones to be
// delivered. If ctx expires first, in-flight deliveries are cancelled.
func (n *Notifier) Shutdown(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.cancel()
		return nil
	case <-ctx.Done():
		n.cancel()
		<-done
		return ctx.Err()
	}
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for msg := range n.queue {
		n.deliver(n.runCtx, msg)
	}
}

// deliver makes up to DefaultMaxAttempts attempts for msg.
func (n *Notifier) deliver(ctx context.Context, msg *model.ContactMessage) {
	body, err := json.Marshal(Payload{
		Event:     EventContactCreated,
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		n.logger.Error("encode notification", slog.String("error", err.Error()))
		n.metrics.IncNotification("failed")
		return
	}

	deliveryID := uuid.NewString()

	for attempt := 0; attempt < DefaultMaxAttempts; attempt++ {
		if attempt > 0 {
			n.metrics.IncNotification("retried")
			timer := time.NewTimer(n.retryDelay(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				n.metrics.IncNotification("failed")
				return
			case <-timer.C:
			}
		}

		status, err := n.send(ctx, deliveryID, body)
		if err == nil {
			n.logger.Info("notification delivered",
				slog.String("delivery_id", deliveryID),
				slog.String("contact_id", msg.ID),
				slog.Int("http_status", status),
				slog.Int("attempt", attempt+1),
			)
			n.metrics.IncNotification("delivered")
			return
		}

		n.logger.Warn("notification attempt failed",
			slog.String("delivery_id", deliveryID),
			slog.String("contact_id", msg.ID),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	n.metrics.IncNotification("failed")
}

func (n *Notifier) send(ctx context.Context, deliveryID string, body []byte) (int, error) {
	timestamp := time.Now().Unix()
	signature := GenerateSignature(n.secret, timestamp, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req, signature, strconv.FormatInt(timestamp, 10), deliveryID)

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
