package service

import (
	"context"
	"errors"
	"time"

	"github.com/pageza/swipe-suggest/backend/internal/model"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// ErrAuditDisabled is returned by summary queries when no audit store is configured.
var ErrAuditDisabled = errors.New("audit store is not configured")

// ISuggestionService produces recipe suggestions for an ingredient set.
type ISuggestionService interface {
	Suggest(ctx context.Context, req types.SuggestionRequest) ([]types.Recipe, error)
}

// IImageService fills in missing recipe imagery.
type IImageService interface {
	Augment(ctx context.Context, recipes []types.Recipe)
}

// IAuditRecorder stores and summarises gateway invocations.
type IAuditRecorder interface {
	Record(ctx context.Context, inv *model.GatewayInvocation) error
	Summary(ctx context.Context, since time.Time) ([]model.OutcomeCount, error)
}
