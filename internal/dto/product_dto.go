package dto

import (
	"time"

	"ecostore/internal/sustain"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU            string               `json:"sku"             validate:"required,min=3,max=40"`
	Name           string               `json:"name"            validate:"required,min=2,max=120"`
	Description    *string              `json:"description"`
	Category       string               `json:"category"        validate:"required"`
	Brand          *string              `json:"brand"`
	ImageURL       *string              `json:"image_url"       validate:"omitempty,url"`
	Price          decimal.Decimal      `json:"price"           validate:"required"`
	Stock          int                  `json:"stock"           validate:"min=0"`
	ExpirationDate *time.Time           `json:"expiration_date"`
	WeightKg       float64              `json:"weight_kg"       validate:"min=0"`
	Materials      []string             `json:"materials"`
	Sustainability *sustain.ProductData `json:"sustainability"`
}

type UpdateProductRequest struct {
	Name           *string              `json:"name"            validate:"omitempty,min=2,max=120"`
	Description    *string              `json:"description"`
	Category       *string              `json:"category"`
	Brand          *string              `json:"brand"`
	ImageURL       *string              `json:"image_url"       validate:"omitempty,url"`
	Price          *decimal.Decimal     `json:"price"`
	Stock          *int                 `json:"stock"           validate:"omitempty,min=0"`
	ExpirationDate *time.Time           `json:"expiration_date"`
	WeightKg       *float64             `json:"weight_kg"       validate:"omitempty,min=0"`
	Materials      []string             `json:"materials"`
	Sustainability *sustain.ProductData `json:"sustainability"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU         string `form:"sku"`
	Name        string `form:"name"`
	Category    string `form:"category"`
	MinEcoScore int    `form:"min_eco_score" validate:"min=0,max=100"`
	OnSaleOnly  bool   `form:"on_sale"`
	Active      string `form:"active"` // "false" | "all" | default: active only
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PricingResponse carries the live dynamic-pricing result for one product.
type PricingResponse struct {
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	AppliedRules       []string        `json:"applied_rules"`
	IsOnSale           bool            `json:"is_on_sale"`
	UrgencyLevel       string          `json:"urgency_level"`
	UrgencyMessage     string          `json:"urgency_message,omitempty"`
	BadgeColor         string          `json:"badge_color"`
	DaysUntilExpiry    *int            `json:"days_until_expiry,omitempty"`
	DemandLevel        *string         `json:"demand_level,omitempty"`
}

type ProductResponse struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	Category       string           `json:"category"`
	Brand          *string          `json:"brand"`
	ImageURL       *string          `json:"image_url"`
	Price          decimal.Decimal  `json:"price"`
	Stock          int              `json:"stock"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	Materials      []string         `json:"materials"`
	CarbonKg       *float64         `json:"carbon_footprint_kg,omitempty"`
	EcoScore       *int             `json:"eco_score,omitempty"`
	EcoGrade       *string          `json:"eco_grade,omitempty"`
	Pricing        *PricingResponse `json:"pricing,omitempty"`
	Active         bool             `json:"active"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// RecommendationResponse is one ranked alternative for a product page.
type RecommendationResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"image_url"`
	EcoScore   int             `json:"eco_score"`
	Similarity int             `json:"similarity"`
}
