package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/folio/folio/internal/auth"
	"github.com/folio/folio/internal/config"
	"github.com/folio/folio/internal/handler"
	"github.com/folio/folio/internal/metrics"
	"github.com/folio/folio/internal/middleware"
	"github.com/folio/folio/internal/repository"
	"github.com/folio/folio/internal/service"
)

type testEnv struct {
	router   http.Handler
	recorder *metrics.InMemoryRecorder
	key      string
}

func newTestEnv(t *testing.T, mutate func(*config.Config, *routerDeps)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                    "development",
		CORSAllowedOrigins:        "https://folio.example.com",
		MaxRequestBodySize:        64 << 10,
		PersistTimeout:            time.Second,
		RateLimitContactEnabled:   true,
		RateLimitContactPerMinute: 5,
		RateLimitContactBurst:     3,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()

	svc := service.NewContactService(service.ContactServiceConfig{
		Store:          repository.NewMemoryStore(),
		Metrics:        recorder,
		Logger:         logger,
		PersistTimeout: cfg.PersistTimeout,
	})

	key, err := auth.GenerateKey(auth.EnvTest)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	verifier, err := auth.NewAdminVerifier(key.Hash)
	if err != nil {
		t.Fatalf("NewAdminVerifier: %v", err)
	}

	limiter := middleware.NewLocalLimiter(cfg.RateLimitContactPerMinute, cfg.RateLimitContactBurst, time.Minute)
	t.Cleanup(limiter.Stop)

	h := handler.New(logger)
	deps := routerDeps{
		cfg:      cfg,
		logger:   logger,
		info:     h,
		health:   handler.NewHealthHandler(handler.HealthConfig{Store: svc, StoreName: "memory", InMemory: true}),
		contacts: handler.NewContactHandler(svc, logger),
		limiter:  limiter,
		verifier: verifier,
		metrics:  recorder,
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}

	return &testEnv{router: setupRouter(deps), recorder: recorder, key: key.Plaintext}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SubmitThenList(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","message":"hi"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected no-store on API responses")
	}

	rec = env.do(t, http.MethodGet, "/api/contact", "", map[string]string{"Authorization": "Bearer " + env.key})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !list.Success || list.Count != 1 {
		t.Errorf("unexpected list: %+v", list)
	}

	if env.recorder.Snapshot().ContactsSubmitted != 1 {
		t.Error("expected submission to be counted")
	}
}

func TestRouter_ListReturnsEverySubmission(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, _ *routerDeps) {
		cfg.RateLimitContactEnabled = false
	})

	const submitted = 60
	for i := 0; i < submitted; i++ {
		rec := env.do(t, http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","message":"hi"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submission %d: expected 201, got %d", i, rec.Code)
		}
	}

	admin := map[string]string{"Authorization": "Bearer " + env.key}
	tests := []struct {
		path string
		want int
	}{
		{"/api/contact", submitted},
		{"/api/contact?limit=1000", submitted},
		{"/api/contact?limit=7", 7},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, tt.path, "", admin)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, rec.Code)
		}
		var list struct {
			Count int               `json:"count"`
			Data  []json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if list.Count != tt.want || len(list.Data) != tt.want {
			t.Errorf("%s: count=%d len=%d, want %d", tt.path, list.Count, len(list.Data), tt.want)
		}
	}
}

func TestRouter_AdminRoutesRequireKey(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/api/contact", "/api/contact/export", "/api/contact/01ABC"} {
		rec := env.do(t, http.MethodGet, path, "", map[string]string{"X-API-Key": "fk_test_abcdef_00000000000000000000000000000000"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s with wrong key: expected 401, got %d", path, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/contact/01ABC", "", map[string]string{"X-API-Key": env.key})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with right key, got %d", rec.Code)
	}
}

func TestRouter_TestRouteIsPublic(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/contact/test", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_RateLimitsSubmissions(t *testing.T) {
	env := newTestEnv(t, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = env.do(t, http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","message":"hi"}`, nil)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if env.recorder.Snapshot().ContactsRejected["rate_limited"] != 1 {
		t.Error("expected rate limited rejection to be counted")
	}
}

func TestRouter_RateLimitIgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	env := newTestEnv(t, nil)

	accepted := 0
	for i := 0; i < 20; i++ {
		rec := env.do(t, http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","message":"hi"}`,
			map[string]string{"X-Forwarded-For": "198.51.100." + strconv.Itoa(i+1)})
		if rec.Code == http.StatusCreated {
			accepted++
		}
	}

	if accepted != 3 {
		t.Errorf("expected only the burst of 3 to be accepted, got %d", accepted)
	}
}

func TestRouter_RateLimitHonorsTrustedProxy(t *testing.T) {
	env := newTestEnv(t, func(_ *config.Config, d *routerDeps) {
		// httptest requests arrive from 192.0.2.1
		d.proxies = []netip.Prefix{netip.MustParsePrefix("192.0.2.0/24")}
	})

	for i := 0; i < 6; i++ {
		rec := env.do(t, http.MethodPost, "/api/contact", `{"name":"A","email":"a@b.com","message":"hi"}`,
			map[string]string{"X-Forwarded-For": "198.51.100." + strconv.Itoa(i+1)})
		if rec.Code != http.StatusCreated {
			t.Fatalf("client %d behind trusted proxy: expected 201, got %d", i, rec.Code)
		}
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Route not found") {
		t.Errorf("unexpected 404 response: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/contact", "", nil)
	if rec.Code != http.StatusMethodNotAllowed || !strings.Contains(rec.Body.String(), "Method not allowed") {
		t.Errorf("unexpected 405 response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthAndInfo(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"database":"In-memory"`) {
		t.Errorf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "endpoints") {
		t.Errorf("unexpected info response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CORS(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/contact/test", "", map[string]string{"Origin": "https://folio.example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://folio.example.com" {
		t.Errorf("expected allowed origin, got %q", got)
	}

	rec = env.do(t, http.MethodGet, "/api/contact/test", "", map[string]string{"Origin": "https://evil.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestRouter_ServesSPA(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>folio</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t, func(cfg *config.Config, d *routerDeps) {
		spa, err := handler.NewSPAHandler(dir, d.info.NotFound)
		if err != nil {
			t.Fatal(err)
		}
		d.spa = spa
	})

	for _, path := range []string{"/", "/about"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "folio") {
			t.Errorf("%s: unexpected response %d %s", path, rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodGet, "/api/missing", "", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Route not found") {
		t.Errorf("expected JSON 404 for API path, got %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "endpoints") {
		t.Errorf("expected info at /api, got %d", rec.Code)
	}
}
