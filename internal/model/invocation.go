package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invocation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeUpstream = "upstream"
	OutcomeParse    = "parse"
	OutcomeUnknown  = "unknown"
)

// GatewayInvocation is one call to the suggestion endpoint. Only counts are
// stored; ingredient names and recipe text never reach the database.
type GatewayInvocation struct {
	ID              string    `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	RequestID       string    `gorm:"size:64" json:"request_id,omitempty"`
	Provider        string    `gorm:"size:32;not null" json:"provider"`
	Model           string    `gorm:"size:128" json:"model"`
	IngredientCount int       `json:"ingredient_count"`
	CanShop         bool      `json:"can_shop"`
	Outcome         string    `gorm:"size:16;not null;index" json:"outcome"`
	RecipeCount     int       `json:"recipe_count"`
	StatusCode      int       `json:"status_code,omitempty"`
	LatencyMS       int64     `json:"latency_ms"`
}

// BeforeCreate assigns a UUID when the caller has not.
func (g *GatewayInvocation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// OutcomeCount is one row of an invocation summary.
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}
