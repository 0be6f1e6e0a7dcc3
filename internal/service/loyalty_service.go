package service

import (
	"ecostore/internal/dto"
	"ecostore/internal/loyalty"
)

// PreviewLoyalty answers "what would this order earn" without touching any
// account state. Balances are owned by the hosted backend; the caller passes
// the current total in and applies the delta itself.
func PreviewLoyalty(req dto.LoyaltyPreviewRequest) dto.LoyaltyPreviewResponse {
	earned := loyalty.PurchasePoints(req.OrderTotal, req.EcoScore) +
		loyalty.CarbonOffsetPoints(req.CarbonOffsetKg)
	newTotal := req.CurrentPoints + earned

	resp := dto.LoyaltyPreviewResponse{
		PointsEarned: earned,
		NewTotal:     newTotal,
		Level:        loyalty.LevelForPoints(newTotal),
	}

	for _, lvl := range loyalty.Levels() {
		if lvl.MinPoints > newTotal {
			next := lvl
			resp.NextLevel = &next
			resp.PointsToNext = lvl.MinPoints - newTotal
			break
		}
	}
	return resp
}
