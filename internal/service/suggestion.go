package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/model"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// SuggestionService turns an ingredient set into recipe suggestions with a
// single upstream call.
type SuggestionService struct {
	generator RecipeGenerator
	images    IImageService
	audit     IAuditRecorder
}

// NewSuggestionService creates a new SuggestionService. images may be nil to
// leave imageUrl untouched; audit may be nil to skip recording.
func NewSuggestionService(generator RecipeGenerator, images IImageService, audit IAuditRecorder) *SuggestionService {
	if audit == nil {
		audit = NoopAuditRecorder{}
	}
	return &SuggestionService{
		generator: generator,
		images:    images,
		audit:     audit,
	}
}

// Suggest builds the prompt, calls the generator exactly once and decodes its
// output. Failures are *UpstreamError or *ParseError.
func (s *SuggestionService) Suggest(ctx context.Context, req types.SuggestionRequest) ([]types.Recipe, error) {
	start := time.Now()
	ingredients := types.NormalizeIngredients(req.Ingredients)
	log := logger.FromContext(ctx, "suggestions")

	recipes, err := s.generate(ctx, BuildPrompt(ingredients, req.CanShop))
	s.record(ctx, len(ingredients), req.CanShop, len(recipes), err, time.Since(start))
	if err != nil {
		log.Warn("recipe generation failed",
			zap.String("provider", s.generator.Provider()),
			zap.String("kind", string(Classify(err))),
			zap.Error(err))
		return nil, err
	}

	if s.images != nil {
		s.images.Augment(ctx, recipes)
	}

	log.Info("generated recipes",
		zap.Int("ingredients", len(ingredients)),
		zap.Bool("can_shop", req.CanShop),
		zap.Int("recipes", len(recipes)),
		zap.Duration("latency", time.Since(start)))
	return recipes, nil
}

func (s *SuggestionService) generate(ctx context.Context, prompt string) ([]types.Recipe, error) {
	text, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipes: %w", err)
	}
	return DecodeRecipes(text)
}

func (s *SuggestionService) record(ctx context.Context, ingredients int, canShop bool, recipes int, err error, latency time.Duration) {
	inv := &model.GatewayInvocation{
		RequestID:       logger.RequestID(ctx),
		Provider:        s.generator.Provider(),
		Model:           s.generator.Model(),
		IngredientCount: ingredients,
		CanShop:         canShop,
		Outcome:         string(Classify(err)),
		RecipeCount:     recipes,
		LatencyMS:       latency.Milliseconds(),
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		inv.StatusCode = upstream.StatusCode
	}

	// the client may already be gone; the row should still land
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if rerr := s.audit.Record(recordCtx, inv); rerr != nil {
		logger.FromContext(ctx, "suggestions").Warn("failed to record invocation", zap.Error(rerr))
	}
}
