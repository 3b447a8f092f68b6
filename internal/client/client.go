package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

const maxBodyBytes = 1 << 20

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("gateway returned status %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// GatewayClient posts ingredient sets to the suggestion gateway.
type GatewayClient struct {
	url  string
	http *http.Client
}

// New creates a client for the suggestion endpoint at url.
func New(url string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &GatewayClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch requests suggestions for ingredients.
func (c *GatewayClient) Fetch(ctx context.Context, ingredients []string, canShop bool) ([]types.Recipe, error) {
	body, err := json.Marshal(types.SuggestionRequest{Ingredients: ingredients, CanShop: canShop})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp types.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			statusErr.Message = errResp.Error
			statusErr.Details = errResp.Details
		}
		return nil, statusErr
	}

	var result types.SuggestionsResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Recipes, nil
}
