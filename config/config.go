package config

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port    string `env:"PORT, default=8080"`
	GinMode string `env:"GIN_MODE, default=debug"`
	// Only origin allowed to call the API cross-origin (the marketing site)
	FrontendOrigin string `env:"FRONTEND_ORIGIN, default=http://localhost:3000"`
	LogLevel       string `env:"LOG_LEVEL, default=info"`
	// Proxies (IPs or CIDRs) whose X-Forwarded-For is honoured. Empty means the
	// client IP is always the connection's remote address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
	// Shown in notification emails as the website the submission came from
	SiteName string `env:"SITE_NAME, default=Luminaris TechWorks"`

	// SMTP Configuration
	SMTPHost               string `env:"SMTP_HOST"`
	SMTPPort               int    `env:"SMTP_PORT, default=587"`
	SMTPUsername           string `env:"SMTP_USER"`
	SMTPPassword           string `env:"SMTP_PASSWORD"`
	SMTPFromEmail          string `env:"SMTP_FROM_EMAIL"` // Falls back to SMTPUsername
	SMTPInsecureSkipVerify bool   `env:"SMTP_INSECURE_SKIP_VERIFY, default=false"`
	ContactEmailTo         string `env:"CONTACT_EMAIL"`

	// Redis Configuration (optional, shared rate limit counters)
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Rate Limiting Configuration
	ContactRateLimit  int           `env:"CONTACT_RATE_LIMIT, default=5"`
	ContactRateWindow time.Duration `env:"CONTACT_RATE_WINDOW, default=1m"`
	// Reject with 503 instead of admitting requests when the counter store fails
	ContactRateFailClosed bool `env:"CONTACT_RATE_FAIL_CLOSED, default=false"`
}

// lookuper is swapped in tests
var lookuper envconfig.Lookuper = envconfig.OsLookuper()

func LoadConfig() (*Config, error) {
	// Load .env file (local development only, silently ignored when missing)
	_ = godotenv.Load()

	return load(context.Background(), lookuper)
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	// Avoid double slashes when the origin is compared against the Origin header
	cfg.FrontendOrigin = strings.TrimRight(cfg.FrontendOrigin, "/")
	if !strings.HasPrefix(cfg.FrontendOrigin, "http://") && !strings.HasPrefix(cfg.FrontendOrigin, "https://") {
		return nil, fmt.Errorf("FRONTEND_ORIGIN must start with http:// or https://, got %q", cfg.FrontendOrigin)
	}

	for i, p := range cfg.TrustedProxies {
		p = strings.TrimSpace(p)
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p)
		}
		cfg.TrustedProxies[i] = p
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", cfg.GinMode)
	}

	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	if cfg.ContactRateLimit <= 0 {
		cfg.ContactRateLimit = 5
	}
	if cfg.ContactRateWindow <= 0 {
		cfg.ContactRateWindow = time.Minute
	}

	// Missing SMTP settings are not fatal: /health must keep working and
	// /contact reports a delivery failure per request.
	if !cfg.SMTPConfigured() {
		log.Println("WARNING: SMTP_HOST, SMTP_USER, SMTP_PASSWORD or CONTACT_EMAIL missing. Contact form deliveries will fail.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory counters.")
	}

	return &cfg, nil
}

// SMTPConfigured reports whether every setting needed to relay mail is present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.ContactEmailTo != ""
}

// SMTPAddr returns host:port of the relay.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
}
