package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/model"
)

// RunMigrations creates or updates the audit tables.
func RunMigrations(db *gorm.DB) error {
	logger.Named("database").Debug("running auto-migration")
	if err := db.AutoMigrate(&model.GatewayInvocation{}); err != nil {
		return fmt.Errorf("failed to migrate gateway_invocations: %w", err)
	}
	return nil
}
