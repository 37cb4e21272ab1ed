package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "REPLICATE_API_TOKEN", "REPLICATE_BASE_URL",
		"DEFAULT_MODEL", "IMAGE_INPUT_MODE", "USER_NAME", "PASSWORD",
		"MAX_FILE_SIZE_MB", "MAX_PROMPT_LENGTH", "RATE_LIMIT_REQUESTS",
		"RATE_LIMIT_WINDOW_MS", "POLL_INTERVAL_MS", "GENERATE_TIMEOUT_SECONDS",
		"ALLOWED_ORIGINS", "GEOIP_DB_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.ReplicateBaseURL != "https://api.replicate.com/v1" {
		t.Fatalf("ReplicateBaseURL = %q", cfg.ReplicateBaseURL)
	}
	if cfg.DefaultModel != "qwen/qwen-image-edit" {
		t.Fatalf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.ImageInputMode != ImageInputModeDataURL {
		t.Fatalf("ImageInputMode = %q", cfg.ImageInputMode)
	}
	if cfg.MaxFileSize != 10<<20 {
		t.Fatalf("MaxFileSize = %d", cfg.MaxFileSize)
	}
	if cfg.MaxPromptLength != 1000 {
		t.Fatalf("MaxPromptLength = %d", cfg.MaxPromptLength)
	}
	if cfg.RateLimitRequests != 10 {
		t.Fatalf("RateLimitRequests = %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Fatalf("RateLimitWindow = %s", cfg.RateLimitWindow)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.GenerateTimeout != 60*time.Second {
		t.Fatalf("GenerateTimeout = %s", cfg.GenerateTimeout)
	}
	if cfg.HasAuthCredentials() {
		t.Fatalf("HasAuthCredentials() = true without credentials")
	}
	if cfg.HasProviderToken() {
		t.Fatalf("HasProviderToken() = true without token")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "r8_test")
	t.Setenv("USER_NAME", "admin")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "30000")
	t.Setenv("GENERATE_TIMEOUT_SECONDS", "20")
	t.Setenv("IMAGE_INPUT_MODE", "upload")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.HasProviderToken() || !cfg.HasAuthCredentials() {
		t.Fatalf("credentials not picked up")
	}
	if cfg.MaxFileSize != 5<<20 {
		t.Fatalf("MaxFileSize = %d", cfg.MaxFileSize)
	}
	if cfg.RateLimitRequests != 3 {
		t.Fatalf("RateLimitRequests = %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("RateLimitWindow = %s", cfg.RateLimitWindow)
	}
	if cfg.GenerateTimeout != 20*time.Second {
		t.Fatalf("GenerateTimeout = %s", cfg.GenerateTimeout)
	}
	if cfg.ImageInputMode != ImageInputModeUpload {
		t.Fatalf("ImageInputMode = %q", cfg.ImageInputMode)
	}
	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != want[0] || cfg.AllowedOrigins[1] != want[1] {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigIgnoresInvalidInt(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE_MB", "not-a-number")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxFileSize != 10<<20 {
		t.Fatalf("MaxFileSize = %d, want default", cfg.MaxFileSize)
	}
}
