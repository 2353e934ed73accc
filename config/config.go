package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is loaded once at startup
// and passed by value into constructors; nothing mutates it afterwards.
type Config struct {
	Server   ServerConfig
	Browser  BrowserConfig
	Renderer RendererConfig
	Registry RegistryConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls how browser sessions are obtained.
type BrowserConfig struct {
	// RemoteURL is the DevTools endpoint of the remote renderer, either
	// http://host:9222 or a ws:// debugger URL. When empty a local
	// Chromium is launched for every session.
	RemoteURL string

	// Headless controls whether a locally launched browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path for local launches.
	BrowserBin string

	// Proxy is passed to locally launched browsers.
	Proxy string

	// Stealth injects the go-rod/stealth init script into every page.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types the page never loads.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// RendererConfig holds the fixed wait budgets of a render call.
type RendererConfig struct {
	PageLoadTimeout time.Duration // default: 30s
	WaitTimeout     time.Duration // default: 10s
	ResultsTimeout  time.Duration // default: 20s
}

// RegistryConfig describes the jurisdiction the service answers for.
type RegistryConfig struct {
	// State is the jurisdiction tag stamped on every record.
	State string // default: "WV"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: false
	APIKeys []string
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
			Host: envOr("CORPREG_HOST", "0.0.0.0"),
			Port: envIntOr("CORPREG_PORT", 8080),
			Mode: envOr("CORPREG_MODE", "release"),
		},
		Browser: BrowserConfig{
			RemoteURL:  firstEnv("CORPREG_RENDERER_URL", "SELENIUM_REMOTE_URL"),
			Headless:   envBoolOr("CORPREG_HEADLESS", true),
			NoSandbox:  envBoolOr("CORPREG_NO_SANDBOX", true),
			BrowserBin: os.Getenv("CORPREG_BROWSER_BIN"),
			Proxy:      os.Getenv("CORPREG_PROXY"),
			Stealth:    envBoolOr("CORPREG_STEALTH", false),
			BlockedResourceTypes: envSliceOr("CORPREG_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Renderer: RendererConfig{
			PageLoadTimeout: envDurationOr("CORPREG_PAGE_LOAD_TIMEOUT", 30*time.Second),
			WaitTimeout:     envDurationOr("CORPREG_WAIT_TIMEOUT", 10*time.Second),
			ResultsTimeout:  envDurationOr("CORPREG_RESULTS_TIMEOUT", 20*time.Second),
		},
		Registry: RegistryConfig{
			State: envOr("CORPREG_STATE", envOr("STATE", "WV")),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("CORPREG_AUTH_ENABLED", false),
			APIKeys: envSliceOr("CORPREG_API_KEYS", nil),
		},
		Log: LogConfig{
			Level:  envOr("CORPREG_LOG_LEVEL", "info"),
			Format: envOr("CORPREG_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

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

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
