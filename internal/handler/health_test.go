package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		cfg          HealthConfig
		wantStatus   string
		wantDatabase string
	}{
		{
			name:         "connected",
			cfg:          HealthConfig{Store: &mockHealthChecker{}},
			wantStatus:   "OK",
			wantDatabase: DatabaseConnected,
		},
		{
			name:         "disconnected",
			cfg:          HealthConfig{Store: &mockHealthChecker{err: errors.New("down")}},
			wantStatus:   "DEGRADED",
			wantDatabase: DatabaseDisconnected,
		},
		{
			name:         "in memory",
			cfg:          HealthConfig{Store: &mockHealthChecker{}, InMemory: true},
			wantStatus:   "OK",
			wantDatabase: DatabaseInMemory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.cfg)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			h.Health(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", rec.Code)
			}

			var response StatusResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", response.Status, tt.wantStatus)
			}
			if response.Database != tt.wantDatabase {
				t.Errorf("database = %q, want %q", response.Database, tt.wantDatabase)
			}
			if response.Timestamp.IsZero() {
				t.Error("expected a timestamp")
			}
		})
	}
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(HealthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz_AllHealthy(t *testing.T) {
	h := NewHealthHandler(HealthConfig{
		Store:     &mockHealthChecker{},
		StoreName: "postgres",
		Cache:     &mockHealthChecker{},
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Checks["postgres"] != "ok" || response.Checks["redis"] != "ok" {
		t.Errorf("unexpected checks: %v", response.Checks)
	}
}

func TestHealthHandler_Readyz_StoreDown(t *testing.T) {
	h := NewHealthHandler(HealthConfig{
		Store:     &mockHealthChecker{err: errors.New("connection refused")},
		StoreName: "mongo",
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %s", response.Status)
	}
	if response.Checks["redis"] != "not configured" {
		t.Errorf("expected redis 'not configured', got %s", response.Checks["redis"])
	}
}

func TestHealthHandler_Readyz_CacheDown(t *testing.T) {
	h := NewHealthHandler(HealthConfig{
		Store: &mockHealthChecker{},
		Cache: &mockHealthChecker{err: errors.New("timeout")},
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
