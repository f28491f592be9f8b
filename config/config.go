package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Nav       NavConfig
	Stabilize StabilizeConfig
	Search    SearchConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-request Rod browser instances.
type BrowserConfig struct {
	// Headless controls whether browsers run headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the outbound proxy endpoint applied to every session.
	// Read from PROXY_URL, falling back to HTTP_PROXY.
	Proxy string

	// MaxSessions bounds the number of concurrently open browser
	// sessions. Acquire blocks (context-aware) when the bound is hit.
	MaxSessions int64 // default: 4
}

// NavConfig controls navigation retry behavior on soft-block statuses.
type NavConfig struct {
	// MaxRetries is the number of additional attempts after a
	// navigation hits a soft-block status (429/403/503).
	MaxRetries int // default: 2

	// BaseDelay scales the linear backoff: base * (attempt+1) + jitter.
	BaseDelay time.Duration // default: 1200ms
}

// StabilizeConfig controls post-navigation page stabilization.
type StabilizeConfig struct {
	// ScrollSteps is the number of discrete wheel advances used to
	// trigger lazy-loaded content. Recognized range: 8-16.
	ScrollSteps int // default: 10

	// ScrollPause is the wait between wheel advances. Recognized
	// range: 250-400ms.
	ScrollPause time.Duration // default: 300ms
}

// SearchConfig controls the request lifecycle.
type SearchConfig struct {
	// RequestTimeout is the wall-clock bound on one /search request.
	RequestTimeout time.Duration // default: 60s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("SCOUT_PORT", 8080),
			Mode: envOr("SCOUT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:    envBoolOr("SCOUT_HEADLESS", true),
			NoSandbox:   envBoolOr("SCOUT_NO_SANDBOX", true),
			BrowserBin:  os.Getenv("SCOUT_BROWSER_BIN"),
			Proxy:       envOr("PROXY_URL", os.Getenv("HTTP_PROXY")),
			MaxSessions: int64(envIntOr("SCOUT_MAX_SESSIONS", 4)),
		},
		Nav: NavConfig{
			MaxRetries: envIntOr("SCOUT_NAV_RETRIES", 2),
			BaseDelay:  envDurationOr("SCOUT_NAV_BASE_DELAY", 1200*time.Millisecond),
		},
		Stabilize: StabilizeConfig{
			ScrollSteps: envIntOr("SCOUT_SCROLL_STEPS", 10),
			ScrollPause: envDurationOr("SCOUT_SCROLL_PAUSE", 300*time.Millisecond),
		},
		Search: SearchConfig{
			RequestTimeout: envDurationOr("SCOUT_REQUEST_TIMEOUT", 60*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("SCOUT_LOG_LEVEL", "info"),
			Format: envOr("SCOUT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
