package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	ReplicateAPIToken string
	ReplicateBaseURL  string
	DefaultModel      string
	ImageInputMode    string

	BasicAuthUser     string
	BasicAuthPassword string

	MaxFileSize     int64
	MaxPromptLength int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	PollInterval    time.Duration
	GenerateTimeout time.Duration

	AllowedOrigins []string
	GeoIPDBPath    string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// Image input modes accepted by IMAGE_INPUT_MODE. data_url submits the source
// image inline as a base64 data URL; upload pushes the raw bytes to the
// provider files API first and references the returned URL.
const (
	ImageInputModeDataURL = "data_url"
	ImageInputModeUpload  = "upload"
)

// LoadConfig loads configuration from environment variables and applies defaults
// where needed. Missing credentials are not an error here: the auth middleware
// fails closed and the generate path answers 503 until REPLICATE_API_TOKEN is set.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		ReplicateAPIToken: os.Getenv("REPLICATE_API_TOKEN"),
		ReplicateBaseURL:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		DefaultModel:      getEnv("DEFAULT_MODEL", "qwen/qwen-image-edit"),
		ImageInputMode:    normalizeInputMode(os.Getenv("IMAGE_INPUT_MODE")),
		BasicAuthUser:     os.Getenv("USER_NAME"),
		BasicAuthPassword: os.Getenv("PASSWORD"),
		MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE_MB", 10)) << 20,
		MaxPromptLength:   getEnvInt("MAX_PROMPT_LENGTH", 1000),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   time.Millisecond * time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)),
		PollInterval:      time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)),
		GenerateTimeout:   time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 60)),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		// Must exceed the generation wait ceiling or the server cuts the
		// connection while the waiter is still polling.
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 75)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	return cfg, nil
}

// HasAuthCredentials reports whether both expected Basic-auth values are configured.
func (c *Config) HasAuthCredentials() bool {
	return c.BasicAuthUser != "" && c.BasicAuthPassword != ""
}

// HasProviderToken reports whether the provider credential is configured.
func (c *Config) HasProviderToken() bool {
	return strings.TrimSpace(c.ReplicateAPIToken) != ""
}

func normalizeInputMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), ImageInputModeUpload) {
		return ImageInputModeUpload
	}
	return ImageInputModeDataURL
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
