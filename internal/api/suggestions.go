package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/service"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// Suggestion routes. The function path is kept for browsers built against
// the serverless deployment.
const (
	SuggestionsPath = "/api/v1/recipes/suggestions"
	FunctionPath    = "/.netlify/functions/getRecipes"
)

const generateFailed = "Failed to generate recipes"

// maxRequestBytes bounds the suggestion request body.
const maxRequestBytes = 64 << 10

// SuggestionHandler serves recipe suggestions
type SuggestionHandler struct {
	suggestions service.ISuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler instance
func NewSuggestionHandler(suggestions service.ISuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// RegisterRoutes registers the suggestion routes. limit runs before the
// handler on POST only, so pre-flights are never counted.
func (h *SuggestionHandler) RegisterRoutes(router gin.IRoutes, limit gin.HandlerFunc) {
	for _, path := range []string{SuggestionsPath, FunctionPath} {
		router.POST(path, limit, h.Suggest)
		router.OPTIONS(path, h.Preflight)
	}
}

// Preflight answers CORS pre-flight requests with an empty 200.
func (h *SuggestionHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Suggest handles suggestion requests
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), "api")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var req types.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid suggestion request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   generateFailed,
			Details: "invalid request body: " + err.Error(),
		})
		return
	}

	recipes, err := h.suggestions.Suggest(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   generateFailed,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.SuggestionsResponse{Recipes: recipes})
}

// MethodNotAllowed is installed as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, types.ErrorResponse{Error: "Method not allowed"})
}
