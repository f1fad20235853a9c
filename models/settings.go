package models

import (
	"time"

	"gorm.io/datatypes"
)

// PricingSettings holds the tenant's pricing tables as JSON documents.
// One row per tenant schema; empty documents mean "use the built-in defaults".
type PricingSettings struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// {"CAJA": 24, ...} unit token -> multiplier
	UnitTable datatypes.JSON `json:"unit_table" gorm:"type:jsonb"`
	// {"shoes": {"margin": 55, "confidence": 0.9}, ...}
	MarginTable datatypes.JSON `json:"margin_table" gorm:"type:jsonb"`
	// [{"threshold": 10000, "step": 1000}, ...]
	RoundingSteps datatypes.JSON `json:"rounding_steps" gorm:"type:jsonb"`

	DuplicateThreshold float64 `json:"duplicate_threshold" gorm:"default:0.9"`
	PossibleThreshold  float64 `json:"possible_threshold" gorm:"default:0.75"`

	UpdatedAt time.Time `json:"updated_at"`
}
