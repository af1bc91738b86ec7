// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles,
// optionally seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// StoreKind identifies which persistence backend DATABASE_URL selects.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMongo    StoreKind = "mongo"
	StoreMemory   StoreKind = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Persistence. The scheme picks the backend: postgres://, mongodb:// or empty for in-memory.
	DatabaseURL    string        `env:"DATABASE_URL"`
	MongoDatabase  string        `env:"MONGO_DATABASE" envDefault:"folio"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Cache (Redis). Optional; rate limiting falls back to in-process buckets.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for contact submissions (per client IP)
	RateLimitContactEnabled   bool `env:"RATE_LIMIT_CONTACT_ENABLED" envDefault:"true"`
	RateLimitContactPerMinute int  `env:"RATE_LIMIT_CONTACT_PER_MINUTE" envDefault:"5"`
	RateLimitContactBurst     int  `env:"RATE_LIMIT_CONTACT_BURST" envDefault:"3"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,*.example.dev")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Proxies whose X-Forwarded-For / X-Real-IP headers are honored.
	// Comma-separated CIDRs or bare IPs; empty trusts no one.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Request body size limit in bytes (default 64KB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`

	// Argon2id PHC hash of the admin API key. Empty leaves admin routes open.
	AdminAPIKeyHash string `env:"ADMIN_API_KEY_HASH"`

	// Owner notifications
	NotifyWebhookURL    string `env:"NOTIFY_WEBHOOK_URL"`
	NotifyWebhookSecret string `env:"NOTIFY_WEBHOOK_SECRET"`
	NotifyQueueSize     int    `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`
	NotifyWorkers       int    `env:"NOTIFY_WORKERS" envDefault:"2"`

	// Built SPA assets served for non-API GET requests
	StaticDir string `env:"STATIC_DIR"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// StoreKind reports which persistence backend DatabaseURL selects.
func (c *Config) StoreKind() (StoreKind, error) {
	if c.DatabaseURL == "" {
		return StoreMemory, nil
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL")
	}

	switch strings.ToLower(parsed.Scheme) {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", parsed.Scheme)
	}
}

// TrustedProxyPrefixes parses TrustedProxies. A bare IP becomes a single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", entry)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", entry)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// NotificationsEnabled reports whether owner notifications are configured.
func (c *Config) NotificationsEnabled() bool {
	return c.NotifyWebhookURL != ""
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.StoreKind(); err != nil {
		errs = append(errs, err)
	}

	for _, origin := range c.GetCORSAllowedOrigins() {
		if err := ValidateOrigin(origin, c.IsProduction()); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}

	if c.PersistTimeout <= 0 {
		errs = append(errs, errors.New("PERSIST_TIMEOUT must be positive"))
	}

	if c.RateLimitContactEnabled && (c.RateLimitContactPerMinute <= 0 || c.RateLimitContactBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_CONTACT_PER_MINUTE and RATE_LIMIT_CONTACT_BURST must be positive"))
	}

	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}

	if c.NotificationsEnabled() {
		if c.NotifyWebhookSecret == "" {
			errs = append(errs, errors.New("NOTIFY_WEBHOOK_SECRET is required when NOTIFY_WEBHOOK_URL is set"))
		}
		if u, err := url.Parse(c.NotifyWebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, errors.New("NOTIFY_WEBHOOK_URL must be an absolute http(s) URL"))
		}
		if c.NotifyQueueSize <= 0 || c.NotifyWorkers <= 0 {
			errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE and NOTIFY_WORKERS must be positive"))
		}
	}

	return errors.Join(errs...)
}

// ValidateOrigin checks a single CORS allow-list entry.
// Entries are exact http(s) origins or "*.domain" wildcards; a bare "*" is refused in production.
func ValidateOrigin(origin string, production bool) error {
	if origin == "*" {
		if production {
			return errors.New("CORS origin \"*\" is not allowed in production")
		}
		return nil
	}

	if strings.HasPrefix(origin, "*.") {
		if len(origin) < 4 || strings.ContainsAny(origin[2:], "/*:") {
			return fmt.Errorf("invalid wildcard CORS origin %q", origin)
		}
		return nil
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid CORS origin %q", origin)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CORS origin %q must use http or https", origin)
	}
	if u.Host == "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("CORS origin %q must be scheme://host[:port]", origin)
	}
	return nil
}

// Load parses environment variables and returns a Config.
// A .env file in the working directory is applied first; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
