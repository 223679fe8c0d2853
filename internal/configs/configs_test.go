package configs

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "SEED_SAMPLE_USERS", "USER_OFFLINE_AFTER", "USER_PURGE_AFTER"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("IsDevelopment() = false with default environment")
	}
	if cfg.UserOfflineAfter != 60*time.Second {
		t.Errorf("UserOfflineAfter = %s, want 60s", cfg.UserOfflineAfter)
	}
	if cfg.UserPurgeAfter != 30*time.Minute {
		t.Errorf("UserPurgeAfter = %s, want 30m", cfg.UserPurgeAfter)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("USER_OFFLINE_AFTER", "30s")
	t.Setenv("USER_PURGE_AFTER", "5m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins); diff != "" {
		t.Errorf("AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
	if cfg.UserOfflineAfter != 30*time.Second || cfg.UserPurgeAfter != 5*time.Minute {
		t.Errorf("timeouts = %s/%s, want 30s/5m", cfg.UserOfflineAfter, cfg.UserPurgeAfter)
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() error = nil, want error")
	}
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://metro.example/api/")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("MOUNT_DELAY", "0s")
	t.Setenv("API_READ_RETRIES", "")
	t.Setenv("STATE_FILE", "")

	cfg, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig() error = %v", err)
	}

	want := &ClientConfig{
		Environment:    cfg.Environment,
		APIBaseURL:     "http://metro.example/api",
		PollInterval:   5 * time.Second,
		RequestTimeout: 10 * time.Second,
		MountDelay:     0,
		ReadRetries:    2,
		StateFile:      ".izmetro-state.json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ClientConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadClientConfigRejectsNonPositivePoll(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0s")
	if _, err := LoadClientConfig(); err == nil {
		t.Fatal("LoadClientConfig() error = nil, want error")
	}
}
