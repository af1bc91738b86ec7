// Package main is the entrypoint for the Folio contact API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/folio/folio/internal/auth"
	"github.com/folio/folio/internal/cache"
	"github.com/folio/folio/internal/config"
	"github.com/folio/folio/internal/handler"
	"github.com/folio/folio/internal/metrics"
	"github.com/folio/folio/internal/middleware"
	"github.com/folio/folio/internal/notify"
	"github.com/folio/folio/internal/security"
	"github.com/folio/folio/internal/server"
	"github.com/folio/folio/internal/service"
	"github.com/folio/folio/internal/store"
)

// startupTimeout bounds connecting to the store and cache.
const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	srv := server.New(nil, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	// Store
	opened, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open contact store",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	srv.OnShutdown("store", opened.Close)

	// Cache and rate limiter
	var cacheClient *cache.Cache
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		srv.OnShutdown("cache", func(context.Context) error { return cacheClient.Close() })
		limiter = middleware.NewRedisLimiter(cacheClient, cfg.RateLimitContactPerMinute, cfg.RateLimitContactBurst)
		logger.Info("connected to Redis")
	} else {
		local := middleware.NewLocalLimiter(cfg.RateLimitContactPerMinute, cfg.RateLimitContactBurst, 5*time.Minute)
		srv.OnShutdown("rate_limiter", func(context.Context) error { local.Stop(); return nil })
		limiter = local
		logger.Info("REDIS_URL not set, using in-process rate limiter")
	}

	// Admin key
	verifier, err := auth.NewAdminVerifier(cfg.AdminAPIKeyHash)
	if err != nil {
		return err
	}
	if !verifier.Enabled() {
		logger.Warn("ADMIN_API_KEY_HASH not set, admin routes are open")
	}

	// Owner notifications
	var notifier service.Notifier
	if cfg.NotificationsEnabled() {
		if err := security.ValidateURL(cfg.NotifyWebhookURL); err != nil {
			return err
		}
		n := notify.New(notify.Config{
			URL:       cfg.NotifyWebhookURL,
			Secret:    cfg.NotifyWebhookSecret,
			QueueSize: cfg.NotifyQueueSize,
			Workers:   cfg.NotifyWorkers,
			Logger:    logger,
			Metrics:   recorder,
		})
		srv.OnShutdown("notifier", n.Shutdown)
		notifier = n
		logger.Info("owner notifications enabled", "workers", cfg.NotifyWorkers)
	}

	contactService := service.NewContactService(service.ContactServiceConfig{
		Store:          opened.Store,
		Notifier:       notifier,
		Sanitizer:      security.NewSanitizer(),
		Metrics:        recorder,
		Logger:         logger,
		PersistTimeout: cfg.PersistTimeout,
	})

	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		logger.Info("no trusted proxies configured, rate limiting keys on the socket peer")
	}

	// Handlers
	h := handler.New(logger)
	healthCfg := handler.HealthConfig{
		Store:     contactService,
		StoreName: opened.Name,
		InMemory:  opened.InMemory,
		Timeout:   cfg.PersistTimeout,
	}
	if cacheClient != nil {
		healthCfg.Cache = cacheClient
	}

	deps := routerDeps{
		cfg:      cfg,
		logger:   logger,
		info:     h,
		health:   handler.NewHealthHandler(healthCfg),
		contacts: handler.NewContactHandler(contactService, logger),
		limiter:  limiter,
		verifier: verifier,
		metrics:  recorder,
		scrape:   metrics.Handler(registry),
		proxies:  proxies,
	}
	if cfg.StaticDir != "" {
		spa, err := handler.NewSPAHandler(cfg.StaticDir, h.NotFound)
		if err != nil {
			return err
		}
		deps.spa = spa
	}

	srv.SetHandler(setupRouter(deps))

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", opened.Name,
	)

	return srv.Run()
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
