package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tryon-gateway/internal/domain/valueobjects"
	"tryon-gateway/internal/infrastructure/external"
)

const (
	BackendChat   = "chat"
	BackendGemini = "gemini"

	AuthNone   = "none"
	AuthAPIKey = "apikey"
	AuthADC    = "adc"
)

// Config represents gateway configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	UpstreamBackend     string
	UpstreamURL         string
	UpstreamModel       string
	UpstreamTemperature float64
	UpstreamMaxTokens   int
	// UpstreamTimeout of zero means no gateway-enforced limit.
	UpstreamTimeout time.Duration
	UpstreamAuth    string
	UpstreamAPIKey  string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	ProjectID     string
	Location      string
}

// Load reads .env files when present, then the environment, and validates the result.
func Load() (*Config, error) {
	// ファイルが無くてもエラーにしない
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "production"),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		UpstreamBackend: strings.ToLower(getEnv("UPSTREAM_BACKEND", BackendChat)),
		UpstreamURL:     getEnv("UPSTREAM_URL", external.DefaultChatCompletionEndpoint),
		UpstreamModel:   getEnv("UPSTREAM_MODEL", valueobjects.DefaultModel),
		UpstreamAuth:    strings.ToLower(getEnv("UPSTREAM_AUTH", AuthNone)),
		UpstreamAPIKey:  os.Getenv("UPSTREAM_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", external.DefaultGeminiModel),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		ProjectID:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:        getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
	}

	var err error
	if cfg.UpstreamTemperature, err = getEnvFloat("UPSTREAM_TEMPERATURE", valueobjects.DefaultTemperature); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxTokens, err = getEnvInt("UPSTREAM_MAX_TOKENS", valueobjects.DefaultMaxTokens); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = getEnvDuration("UPSTREAM_TIMEOUT", 0); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.UpstreamBackend {
	case BackendChat:
		switch c.UpstreamAuth {
		case AuthNone, AuthADC:
		case AuthAPIKey:
			if c.UpstreamAPIKey == "" {
				return fmt.Errorf("UPSTREAM_API_KEY is required when UPSTREAM_AUTH=%s", AuthAPIKey)
			}
		default:
			return fmt.Errorf("UPSTREAM_AUTH must be one of none, apikey, adc, got %q", c.UpstreamAuth)
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" && c.ProjectID == "" {
			return fmt.Errorf("GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT is required when UPSTREAM_BACKEND=%s", BackendGemini)
		}
	default:
		return fmt.Errorf("UPSTREAM_BACKEND must be %q or %q, got %q", BackendChat, BackendGemini, c.UpstreamBackend)
	}

	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative")
	}

	if _, err := c.GenerationParameters(); err != nil {
		return fmt.Errorf("invalid generation parameters: %w", err)
	}

	return nil
}

// GenerationParameters returns the sampling settings for the configured backend.
func (c *Config) GenerationParameters() (*valueobjects.GenerationParameters, error) {
	modelName := c.UpstreamModel
	if c.UpstreamBackend == BackendGemini {
		modelName = c.GeminiModel
	}
	return valueobjects.NewGenerationParameters(modelName, c.UpstreamTemperature, c.UpstreamMaxTokens)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return i, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

// getEnvDuration accepts Go durations ("90s") or whole seconds ("90").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
