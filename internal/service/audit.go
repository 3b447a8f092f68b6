package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/swipe-suggest/backend/internal/model"
)

// GormAuditRecorder stores invocations through gorm.
type GormAuditRecorder struct {
	db *gorm.DB
}

// NewGormAuditRecorder creates a recorder backed by db.
func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

// Record inserts one invocation row.
func (r *GormAuditRecorder) Record(ctx context.Context, inv *model.GatewayInvocation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

// Summary counts invocations per outcome since the given time.
func (r *GormAuditRecorder) Summary(ctx context.Context, since time.Time) ([]model.OutcomeCount, error) {
	var rows []model.OutcomeCount
	err := r.db.WithContext(ctx).
		Model(&model.GatewayInvocation{}).
		Select("outcome, count(*) as count").
		Where("created_at >= ?", since).
		Group("outcome").
		Order("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise invocations: %w", err)
	}
	return rows, nil
}

// Prune deletes invocations created before the cutoff and returns how many
// rows went.
func (r *GormAuditRecorder) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&model.GatewayInvocation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune invocations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// NoopAuditRecorder discards invocations. It is used when no database is
// configured.
type NoopAuditRecorder struct{}

func (NoopAuditRecorder) Record(context.Context, *model.GatewayInvocation) error { return nil }

func (NoopAuditRecorder) Summary(context.Context, time.Time) ([]model.OutcomeCount, error) {
	return nil, ErrAuditDisabled
}
