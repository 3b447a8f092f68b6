package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin to POST JSON to the gateway. Simple GETs such as
// health checks still receive the allow-origin header.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:             []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})
}
