package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-3-sonnet-20240229"

	deepSeekEndpoint     = "https://api.deepseek.com/v1/chat/completions"
	defaultDeepSeekModel = "deepseek-chat"

	defaultMaxTokens = 2048
	maxResponseBytes = 1 << 20
)

// RecipeGenerator sends one prompt to the upstream model and returns the raw
// text it produced.
type RecipeGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// GeneratorConfig selects and configures an upstream provider.
type GeneratorConfig struct {
	Provider  string
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewRecipeGenerator builds the generator for cfg.Provider.
func NewRecipeGenerator(cfg GeneratorConfig) (RecipeGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key must be set")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch strings.ToLower(cfg.Provider) {
	case "", "anthropic":
		return &AnthropicClient{
			apiKey:    cfg.APIKey,
			apiURL:    orDefault(cfg.APIURL, anthropicEndpoint),
			model:     orDefault(cfg.Model, defaultAnthropicModel),
			maxTokens: cfg.MaxTokens,
			client:    httpClient,
		}, nil
	case "deepseek":
		return &DeepSeekClient{
			apiKey:    cfg.APIKey,
			apiURL:    orDefault(cfg.APIURL, deepSeekEndpoint),
			model:     orDefault(cfg.Model, defaultDeepSeekModel),
			maxTokens: cfg.MaxTokens,
			client:    httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *AnthropicClient) Provider() string { return "anthropic" }
func (c *AnthropicClient) Model() string    { return c.model }

// Complete sends prompt as a single user message.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var result anthropicResponse
	if err := postJSON(ctx, c.client, c.Provider(), c.apiURL, headers, reqBody, &result); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", &ParseError{Reason: "no text content in API response"}
	}
	if result.StopReason == "max_tokens" {
		return "", &ParseError{Reason: "model output truncated at token budget"}
	}
	return text.String(), nil
}

// DeepSeekClient talks to the DeepSeek chat completions API.
type DeepSeekClient struct {
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

type deepSeekRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *DeepSeekClient) Provider() string { return "deepseek" }
func (c *DeepSeekClient) Model() string    { return c.model }

// Complete sends prompt as a single user message and asks for a JSON object.
func (c *DeepSeekClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := deepSeekRequest{
		Model:     c.model,
		Messages:  []Message{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.9, // diverse suggestions
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var result deepSeekResponse
	if err := postJSON(ctx, c.client, c.Provider(), c.apiURL, headers, reqBody, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", &ParseError{Reason: "no choices in API response"}
	}
	if result.Choices[0].FinishReason == "length" {
		return "", &ParseError{Reason: "model output truncated at token budget"}
	}
	return result.Choices[0].Message.Content, nil
}

// postJSON performs exactly one POST and decodes a 2xx body into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &UpstreamError{Provider: provider, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Reason: "invalid response envelope", Err: err}
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
