package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

func TestGatewayClient_Fetch(t *testing.T) {
	t.Run("should post ingredients and decode recipes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req types.SuggestionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"eggs", "bacon"}, req.Ingredients)
			assert.True(t, req.CanShop)

			_ = json.NewEncoder(w).Encode(types.SuggestionsResponse{Recipes: []types.Recipe{{Name: "Carbonara"}}})
		}))
		defer server.Close()

		recipes, err := New(server.URL, time.Second).Fetch(context.Background(), []string{"eggs", "bacon"}, true)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Carbonara", recipes[0].Name)
	})

	t.Run("should surface gateway errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: "Failed to generate recipes", Details: "boom"})
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second).Fetch(context.Background(), []string{"eggs"}, false)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "Failed to generate recipes", statusErr.Message)
		assert.Equal(t, "boom", statusErr.Details)
	})

	t.Run("should honour cancellation", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(server.URL, time.Second).Fetch(ctx, []string{"eggs"}, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
