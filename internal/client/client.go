// Package client is a Go client for the contact API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/folio/folio/internal/handler/dto"
)

// Status texts shown to a person submitting the form.
const (
	StatusSending     = "Sending..."
	StatusSent        = "Message sent successfully!"
	StatusUnreachable = "Error: Cannot connect to server. Please try again."
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 15 * time.Second

// ErrUnreachable is returned when no response was received from the server.
var ErrUnreachable = errors.New("cannot connect to server")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// Client calls the contact API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the admin key sent on list, get and export calls.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends a contact message.
func (c *Client) Submit(ctx context.Context, req dto.CreateContactRequest) (*dto.ContactSummary, error) {
	var resp dto.CreateContactResponse
	if err := c.do(ctx, http.MethodPost, "/api/contact", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// List returns messages newest first. A positive limit caps the result; zero lists all.
func (c *Client) List(ctx context.Context, limit int) ([]dto.ContactResponse, error) {
	path := "/api/contact"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var resp dto.ContactListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Get returns a single message.
func (c *Client) Get(ctx context.Context, id string) (*dto.ContactResponse, error) {
	var resp dto.ContactDetailResponse
	if err := c.do(ctx, http.MethodGet, "/api/contact/"+url.PathEscape(id), nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, admin bool, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin && c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}
	return apiErr
}

// StatusText renders the outcome of Submit as the form's status line.
func StatusText(err error) string {
	if err == nil {
		return StatusSent
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message == "" {
			return "Error: Server error"
		}
		return "Error: " + apiErr.Message
	case errors.Is(err, ErrUnreachable):
		return StatusUnreachable
	default:
		return "Error: " + err.Error()
	}
}
