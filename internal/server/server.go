package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/swipe-suggest/backend/config"
	"github.com/pageza/swipe-suggest/backend/internal/database"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/middleware"
	"github.com/pageza/swipe-suggest/backend/internal/router"
	"github.com/pageza/swipe-suggest/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	http   *http.Server
	redis  *redis.Client
	db     *gorm.DB
	log    *zap.Logger
}

// New wires the gateway from cfg. Redis and the audit database are
// optional; the upstream generator is not.
func New(cfg *config.Config) (*Server, error) {
	log := logger.Named("server")
	gin.SetMode(cfg.Environment.GinMode())

	generator, err := service.NewRecipeGenerator(service.GeneratorConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMAPIKey,
		APIURL:    cfg.LLMAPIURL,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe generator: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	var (
		db    *gorm.DB
		audit service.IAuditRecorder = service.NoopAuditRecorder{}
	)
	// release whatever was opened if a later step fails
	fail := func(err error) (*Server, error) {
		_ = closeAll(redisClient, db)
		return nil, err
	}

	if cfg.DatabaseURL != "" {
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			return fail(err)
		}
		if err := database.RunMigrations(db); err != nil {
			return fail(err)
		}
		audit = service.NewGormAuditRecorder(db)
	}

	var images service.IImageService
	if cfg.ImagePlaceholders {
		var s3Config *config.S3Config
		if cfg.S3BucketName != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			s3Config, err = config.NewS3Config(ctx, cfg.S3BucketName, cfg.AWSRegion)
			cancel()
			if err != nil {
				return fail(err)
			}
		}
		images = service.NewPlaceholderImageService(s3Config, cfg.ImagePlaceholderURL, cfg.ImageURLTTL)
	}

	engine := router.SetupRouter(router.Deps{
		Suggestions:    service.NewSuggestionService(generator, images, audit),
		Audit:          audit,
		Limiter:        middleware.NewLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow),
		Redis:          redisClient,
		DB:             db,
		ServiceName:    cfg.ServiceName,
		Version:        cfg.Version,
		TrustedProxies: cfg.TrustedProxies,
	})

	log.Info("gateway configured",
		zap.String("provider", generator.Provider()),
		zap.String("model", generator.Model()),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("audit", db != nil),
		zap.Bool("images", images != nil))

	return &Server{
		config: cfg,
		router: engine,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			// upstream generation can take most of a minute
			WriteTimeout: cfg.LLMTimeout + 10*time.Second,
		},
		redis: redisClient,
		db:    db,
		log:   log,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. It returns nil on a clean shutdown.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes Redis and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}
	if err := closeAll(s.redis, s.db); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// closeAll closes the Redis client and database pool when present.
func closeAll(redisClient *redis.Client, db *gorm.DB) error {
	var errs []error
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
