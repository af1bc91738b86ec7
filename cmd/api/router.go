package main

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/folio/folio/internal/auth"
	"github.com/folio/folio/internal/config"
	"github.com/folio/folio/internal/handler"
	"github.com/folio/folio/internal/metrics"
	"github.com/folio/folio/internal/middleware"
)

// routerDeps collects everything setupRouter wires together.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	info     *handler.Handler
	health   *handler.HealthHandler
	contacts *handler.ContactHandler
	spa      http.Handler // nil unless STATIC_DIR is set
	limiter  middleware.Limiter
	verifier *auth.AdminVerifier
	metrics  metrics.Recorder
	scrape   http.Handler
	proxies  []netip.Prefix
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// 404 and 405 handlers, set first so sub-routers inherit them
	notFound := http.HandlerFunc(d.info.NotFound)
	if d.spa != nil {
		notFound = d.spa.ServeHTTP
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(d.info.MethodNotAllowed)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(middleware.TrustedRealIP(d.proxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))

	// Health and metrics (no auth required)
	r.Get("/health", d.health.Health)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.scrape != nil {
		r.Method(http.MethodGet, "/metrics", d.scrape)
	}

	// Service info. With a SPA mounted, "/" belongs to the app.
	r.Get("/api", d.info.Info)
	if d.spa == nil {
		r.Get("/", d.info.Info)
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.limiter,
		Metrics: d.metrics,
		Enabled: d.cfg.RateLimitContactEnabled,
	}
	adminCfg := middleware.AdminAuthConfig{
		Logger:   d.logger,
		Verifier: d.verifier,
	}

	r.Route("/api/contact", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/", d.contacts.Create)
		r.Get("/test", d.contacts.Test)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(adminCfg))
			r.Get("/", d.contacts.List)
			r.Get("/export", d.contacts.Export)
			r.Get("/{id}", d.contacts.Get)
		})
	})

	return r
}
