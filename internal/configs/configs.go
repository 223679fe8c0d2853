/*
Package configs is responsible for loading and parsing the application's configuration settings.

Both binaries read operating system environment variables (optionally pre-populated from a
.env file by main). The server needs its port, CORS origins and presence timeouts; the
terminal client needs the API location, poll interval and where to keep its saved selections.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains the parameters of the HTTP server.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Presence Settings
	// SeedSampleUsers fills the registry with demo riders at startup.
	SeedSampleUsers bool
	// UserOfflineAfter is how long a user may go without a ping before being marked offline.
	UserOfflineAfter time.Duration
	// UserPurgeAfter is how long an offline user is kept before removal.
	UserPurgeAfter time.Duration
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads the server configuration from environment variables,
// applying defaults and validating ranges.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = getEnv("ENVIRONMENT", "development")

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))

	// --- Presence Settings ---
	seed, err := strconv.ParseBool(getEnv("SEED_SAMPLE_USERS", strconv.FormatBool(cfg.IsDevelopment())))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_SAMPLE_USERS environment variable: %w", err)
	}
	cfg.SeedSampleUsers = seed

	if cfg.UserOfflineAfter, err = getDuration("USER_OFFLINE_AFTER", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.UserPurgeAfter, err = getDuration("USER_PURGE_AFTER", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.UserPurgeAfter < cfg.UserOfflineAfter {
		return nil, fmt.Errorf("USER_PURGE_AFTER (%s) must not be shorter than USER_OFFLINE_AFTER (%s)", cfg.UserPurgeAfter, cfg.UserOfflineAfter)
	}

	return cfg, nil
}

// ClientConfig contains the parameters of the terminal client.
type ClientConfig struct {
	Environment string

	// APIBaseURL is the fixed base path of the REST endpoints, e.g. http://localhost:8080/api.
	APIBaseURL string

	// PollInterval is the period of the background refresh loop.
	PollInterval time.Duration

	// RequestTimeout bounds every HTTP call made by the client.
	RequestTimeout time.Duration

	// MountDelay is the pause between switching to the joined room and its first refresh.
	MountDelay time.Duration

	// ReadRetries is how many times a failed read request is retried before the region
	// shows its retry affordance.
	ReadRetries uint64

	// StateFile is where persisted selections are kept between runs.
	StateFile string
}

// LoadClientConfig reads the terminal client configuration from environment variables.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		Environment: getEnv("ENVIRONMENT", "development"),
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		StateFile:   getEnv("STATE_FILE", ".izmetro-state.json"),
	}

	var err error
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.MountDelay, err = getDuration("MOUNT_DELAY", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if retries := os.Getenv("API_READ_RETRIES"); retries != "" {
		if cfg.ReadRetries, err = strconv.ParseUint(retries, 10, 8); err != nil {
			return nil, fmt.Errorf("invalid API_READ_RETRIES environment variable: %w", err)
		}
	} else {
		cfg.ReadRetries = 2
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
