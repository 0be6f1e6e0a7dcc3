package dto

import (
	"ecostore/internal/loyalty"

	"github.com/shopspring/decimal"
)

// LoyaltyPreviewRequest asks how many points an order would earn. Account
// balances live in the hosted backend; the caller supplies the current total.
type LoyaltyPreviewRequest struct {
	OrderTotal    decimal.Decimal `json:"order_total"    validate:"required"`
	EcoScore      int             `json:"eco_score"      validate:"min=0,max=100"`
	CarbonOffsetKg float64        `json:"carbon_offset_kg" validate:"min=0"`
	CurrentPoints int             `json:"current_points" validate:"min=0"`
}

type LoyaltyPreviewResponse struct {
	PointsEarned int            `json:"points_earned"`
	NewTotal     int            `json:"new_total"`
	Level        loyalty.Level  `json:"level"`
	NextLevel    *loyalty.Level `json:"next_level,omitempty"`
	PointsToNext int            `json:"points_to_next,omitempty"`
}
