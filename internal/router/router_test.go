package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/swipe-suggest/backend/internal/api"
	"github.com/pageza/swipe-suggest/backend/internal/middleware"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingSuggestions struct {
	calls int
}

func (s *countingSuggestions) Suggest(_ context.Context, _ types.SuggestionRequest) ([]types.Recipe, error) {
	s.calls++
	return []types.Recipe{{Name: "Omelette"}}, nil
}

func postFrom(engine *gin.Engine, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, api.SuggestionsPath, bytes.NewBufferString(`{"ingredients":["eggs"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	suggestions := &countingSuggestions{}
	engine := SetupRouter(Deps{
		Suggestions: suggestions,
		Limiter:     middleware.NewLimiter(nil, 1, time.Minute),
	})

	var codes []int
	for _, xff := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5"} {
		codes = append(codes, postFrom(engine, "203.0.113.7:41000", xff))
	}

	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
	assert.Equal(t, 1, suggestions.calls)

	// a different peer still has its own budget
	assert.Equal(t, http.StatusOK, postFrom(engine, "198.51.100.9:41000", ""))
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	suggestions := &countingSuggestions{}
	engine := SetupRouter(Deps{
		Suggestions:    suggestions,
		Limiter:        middleware.NewLimiter(nil, 1, time.Minute),
		TrustedProxies: []string{"203.0.113.0/24"},
	})

	assert.Equal(t, http.StatusOK, postFrom(engine, "203.0.113.7:41000", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, postFrom(engine, "203.0.113.7:41000", "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(engine, "203.0.113.7:41000", "10.0.0.1"))

	// an untrusted peer cannot pick its bucket
	assert.Equal(t, http.StatusOK, postFrom(engine, "192.0.2.5:41000", "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(engine, "192.0.2.5:41000", "10.0.0.4"))
	assert.Equal(t, 3, suggestions.calls)
}

func TestInvalidTrustedProxiesFallBackToRemoteAddr(t *testing.T) {
	engine := SetupRouter(Deps{
		Suggestions:    &countingSuggestions{},
		Limiter:        middleware.NewLimiter(nil, 1, time.Minute),
		TrustedProxies: []string{"not-an-ip"},
	})

	assert.Equal(t, http.StatusOK, postFrom(engine, "203.0.113.7:41000", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(engine, "203.0.113.7:41000", "10.0.0.2"))
}
