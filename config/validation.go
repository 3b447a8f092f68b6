package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

var supportedProviders = map[string]bool{
	"anthropic": true,
	"deepseek":  true,
}

// requirements lists the fields that must be non-empty per environment.
var requirements = map[Environment][]string{
	Development: {"SERVER_PORT", "LLM_API_KEY"},
	Test:        {"SERVER_PORT"},
	CI:          {"SERVER_PORT"},
	Production:  {"SERVER_PORT", "LLM_API_KEY", "SERVICE_NAME"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	values := map[string]string{
		"SERVER_PORT":  cfg.ServerPort,
		"LLM_API_KEY":  cfg.LLMAPIKey,
		"SERVICE_NAME": cfg.ServiceName,
	}
	for _, field := range requirements[cfg.Environment] {
		if values[field] == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	if !supportedProviders[cfg.LLMProvider] {
		errs = append(errs, ValidationError{Field: "LLM_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.LLMProvider)})
	}
	if cfg.LLMMaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "LLM_MAX_TOKENS", Message: "must be positive"})
	}
	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must not be negative"})
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive when rate limiting is enabled"})
	}
	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, ValidationError{Field: "TRUSTED_PROXIES", Message: fmt.Sprintf("%q is not an IP or CIDR", proxy)})
		}
	}
	if cfg.ImagePlaceholders && cfg.S3BucketName == "" && !strings.Contains(cfg.ImagePlaceholderURL, "%s") {
		errs = append(errs, ValidationError{Field: "IMAGE_PLACEHOLDER_URL", Message: "must contain a %s verb for the recipe name"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}
