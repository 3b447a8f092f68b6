package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/swipe-suggest/backend/internal/database"
	"github.com/pageza/swipe-suggest/backend/internal/service"
)

// Dependency states reported by the health endpoint.
const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// HealthHandler reports liveness and dependency status.
type HealthHandler struct {
	service string
	version string
	redis   *redis.Client
	db      *gorm.DB
	audit   service.IAuditRecorder
}

// NewHealthHandler creates a HealthHandler. redisClient, db and audit may be nil.
func NewHealthHandler(serviceName, version string, redisClient *redis.Client, db *gorm.DB, audit service.IAuditRecorder) *HealthHandler {
	if audit == nil {
		audit = service.NoopAuditRecorder{}
	}
	return &HealthHandler{
		service: serviceName,
		version: version,
		redis:   redisClient,
		db:      db,
		audit:   audit,
	}
}

// RegisterRoutes registers health and stats routes.
func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
	router.GET("/healthz", h.Health)
	router.GET("/api/v1/stats", h.Stats)
}

// Health reports 200 when every configured dependency answers and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	redisStatus := StatusDisabled
	if h.redis != nil {
		redisStatus = StatusUp
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisStatus = StatusDown
		}
	}

	dbStatus := StatusDisabled
	if h.db != nil {
		dbStatus = StatusUp
		if err := database.HealthCheck(ctx, h.db); err != nil {
			dbStatus = StatusDown
		}
	}

	status, code := "ok", http.StatusOK
	if redisStatus == StatusDown || dbStatus == StatusDown {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.service,
		"version":   h.version,
		"redis":     redisStatus,
		"db":        dbStatus,
	})
}

// Stats returns invocation counts per outcome over the last 24 hours.
func (h *HealthHandler) Stats(c *gin.Context) {
	since := time.Now().Add(-24 * time.Hour)
	counts, err := h.audit.Summary(c.Request.Context(), since)
	if errors.Is(err, service.ErrAuditDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit store is not configured"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	var total int64
	for _, oc := range counts {
		total += oc.Count
	}
	c.JSON(http.StatusOK, gin.H{
		"since":    since.UTC().Format(time.RFC3339),
		"total":    total,
		"outcomes": counts,
	})
}
