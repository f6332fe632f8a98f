package profile

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/parsedate/server/timezone"
)

// Profile is the configuration of the parsedate CLI and server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Timezone is the ambient IANA zone. Empty means the local zone.
	Timezone string
	// Format is the default output format of the CLI
	Format string
	// Version is the current version of parsedate
	Version string

	CacheSize int           // PARSEDATE_CACHE_SIZE (default: 1024)
	CacheTTL  time.Duration // PARSEDATE_CACHE_TTL (default: 10m)
	RateLimit float64       // PARSEDATE_RATE_LIMIT, requests per second per client (default: 10)
	RateBurst int           // PARSEDATE_RATE_BURST (default: 20)

	// MaxInputLength bounds the length of one date string accepted by the
	// server. PARSEDATE_MAX_INPUT_LENGTH (default: 1024)
	MaxInputLength int
}

// Output formats.
const (
	FormatDefault = "default"
	FormatISO8601 = "iso-8601"
	FormatRFC3339 = "rfc-3339"
	FormatRFCMail = "rfc-email"
	FormatJSON    = "json"
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// FromEnv loads configuration from PARSEDATE_* environment variables.
// The ambient zone falls back to the standard TZ variable.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("PARSEDATE_MODE", "prod")
	p.Addr = getEnvOrDefault("PARSEDATE_ADDR", "")
	p.Port = getIntEnvOrDefault("PARSEDATE_PORT", 8081)
	p.Timezone = getEnvOrDefault("PARSEDATE_TZ", os.Getenv("TZ"))
	p.Format = getEnvOrDefault("PARSEDATE_FORMAT", FormatDefault)

	p.CacheSize = getIntEnvOrDefault("PARSEDATE_CACHE_SIZE", 1024)
	p.CacheTTL = 10 * time.Minute
	if d, err := time.ParseDuration(os.Getenv("PARSEDATE_CACHE_TTL")); err == nil {
		p.CacheTTL = d
	}
	p.RateLimit = 10
	if r, err := strconv.ParseFloat(os.Getenv("PARSEDATE_RATE_LIMIT"), 64); err == nil {
		p.RateLimit = r
	}
	p.RateBurst = getIntEnvOrDefault("PARSEDATE_RATE_BURST", 20)
	p.MaxInputLength = getIntEnvOrDefault("PARSEDATE_MAX_INPUT_LENGTH", 1024)
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "prod"
	}
	if p.Format == "" {
		p.Format = FormatDefault
	}
	switch p.Format {
	case FormatDefault, FormatISO8601, FormatRFC3339, FormatRFCMail, FormatJSON:
	default:
		return errors.Errorf("unknown output format %q", p.Format)
	}

	if _, err := timezone.ParseTimezone(p.Timezone); err != nil {
		slog.Error("failed to load timezone", slog.String("timezone", p.Timezone), slog.String("error", err.Error()))
		return errors.Wrapf(err, "unable to use ambient timezone")
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.CacheSize < 0 {
		return errors.Errorf("invalid cache size %d", p.CacheSize)
	}
	if p.RateLimit <= 0 || p.RateBurst <= 0 {
		return errors.Errorf("invalid rate limit %g/s with burst %d", p.RateLimit, p.RateBurst)
	}
	if p.MaxInputLength <= 0 {
		return errors.Errorf("invalid max input length %d", p.MaxInputLength)
	}
	return nil
}
