package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/swipe-suggest/backend/internal/api"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/middleware"
	"github.com/pageza/swipe-suggest/backend/internal/service"
)

// Deps are the collaborators the router wires into handlers. Redis, DB,
// Audit and Limiter may be nil.
type Deps struct {
	Suggestions service.ISuggestionService
	Audit       service.IAuditRecorder
	Limiter     middleware.Limiter
	Redis       *redis.Client
	DB          *gorm.DB
	ServiceName string
	Version     string

	// TrustedProxies may set X-Forwarded-For. With none, the client IP used
	// for rate limiting is the connection's remote address.
	TrustedProxies []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Named("router").Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.HandleMethodNotAllowed = true
	router.NoMethod(api.MethodNotAllowed)

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(),
	)

	api.NewSuggestionHandler(deps.Suggestions).RegisterRoutes(router, middleware.RateLimit(deps.Limiter))
	api.NewHealthHandler(deps.ServiceName, deps.Version, deps.Redis, deps.DB, deps.Audit).RegisterRoutes(router)

	return router
}
