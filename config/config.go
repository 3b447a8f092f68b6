package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost  string `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerPort  string `env:"SERVER_PORT" env-default:"8080"`
	ServiceName string `env:"SERVICE_NAME" env-default:"swipe-suggest"`
	Version     string `env:"APP_VERSION" env-default:"dev"`

	// Upstream generation API
	LLMProvider   string        `env:"LLM_PROVIDER" env-default:"anthropic"`
	LLMAPIKey     string        `env:"LLM_API_KEY"`
	LLMAPIKeyFile string        `env:"LLM_API_KEY_FILE"`
	LLMAPIURL     string        `env:"LLM_API_URL"`
	LLMModel      string        `env:"LLM_MODEL"`
	LLMMaxTokens  int           `env:"LLM_MAX_TOKENS" env-default:"2048"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" env-default:"60s"`

	// Redis configuration, used by the rate limiter when set
	RedisURL      string `env:"REDIS_URL"`
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// Rate limiting per client IP
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" env-default:"30"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`

	// Proxies allowed to set X-Forwarded-For, as IPs or CIDRs. Empty means
	// the client IP is always the connection's remote address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`

	// Placeholder imagery
	ImagePlaceholders   bool          `env:"IMAGE_PLACEHOLDERS" env-default:"true"`
	ImagePlaceholderURL string        `env:"IMAGE_PLACEHOLDER_URL" env-default:"https://placehold.co/600x400?text=%s"`
	ImageURLTTL         time.Duration `env:"IMAGE_URL_TTL" env-default:"1h"`
	S3BucketName        string        `env:"S3_BUCKET_NAME"`
	AWSRegion           string        `env:"AWS_REGION" env-default:"us-east-1"`

	// Operator audit store; empty disables it
	DatabaseURL string `env:"DATABASE_URL"`
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis endpoint has been configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// .env files are a development convenience only, and may set ENV itself
	if GetEnvironment() != Production {
		if err := godotenv.Load(); err != nil {
			logger.Named("config").Debug("no .env file found, using process environment")
		}
	}
	env := GetEnvironment()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Environment = env
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)

	if cfg.LLMAPIKey == "" {
		key, err := loadAPIKey(cfg.LLMAPIKeyFile)
		if err != nil {
			return nil, err
		}
		cfg.LLMAPIKey = key
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIKey reads the upstream API key from an explicit file or, failing
// that, from the llm_api_key Docker secret.
func loadAPIKey(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", errors.New("API key file is empty")
		}
		return key, nil
	}
	return readSecret("llm_api_key"), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
