package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/config"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

const placeholderPrefix = "placeholders/"

// PlaceholderImageService fills in imageUrl for recipes that arrive without
// one. With an S3 bucket it presigns a per-cuisine object, otherwise it
// renders the configured URL template.
type PlaceholderImageService struct {
	s3Config    *config.S3Config
	urlTemplate string
	ttl         time.Duration
	log         *zap.Logger
}

// NewPlaceholderImageService creates a new PlaceholderImageService instance.
// s3Config may be nil.
func NewPlaceholderImageService(s3Config *config.S3Config, urlTemplate string, ttl time.Duration) *PlaceholderImageService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PlaceholderImageService{
		s3Config:    s3Config,
		urlTemplate: urlTemplate,
		ttl:         ttl,
		log:         logger.Named("images"),
	}
}

// Augment sets ImageURL on every recipe that lacks one.
func (s *PlaceholderImageService) Augment(ctx context.Context, recipes []types.Recipe) {
	for i := range recipes {
		if recipes[i].ImageURL != "" {
			continue
		}
		imageURL, err := s.PlaceholderURL(ctx, recipes[i])
		if err != nil {
			s.log.Warn("failed to presign placeholder, using template",
				zap.String("cuisine", recipes[i].Cuisine), zap.Error(err))
			imageURL = s.templateURL(recipes[i].Name)
		}
		recipes[i].ImageURL = imageURL
	}
}

// PlaceholderURL returns the placeholder image for one recipe.
func (s *PlaceholderImageService) PlaceholderURL(ctx context.Context, recipe types.Recipe) (string, error) {
	if s.s3Config == nil {
		return s.templateURL(recipe.Name), nil
	}
	presigned, err := s.s3Config.GeneratePresignedURL(ctx, PlaceholderKey(recipe.Cuisine), s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign placeholder: %w", err)
	}
	return presigned, nil
}

func (s *PlaceholderImageService) templateURL(name string) string {
	if s.urlTemplate == "" {
		return ""
	}
	return fmt.Sprintf(s.urlTemplate, url.QueryEscape(name))
}

// PlaceholderKey maps a cuisine onto its object key in the placeholder bucket.
func PlaceholderKey(cuisine string) string {
	slug := slugify(cuisine)
	if slug == "" {
		slug = "default"
	}
	return placeholderPrefix + slug + ".jpg"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
