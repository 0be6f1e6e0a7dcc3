package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"ecostore/internal/sustain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SustainabilityData stores a product's lifecycle declaration as JSONB.
// The shape matches sustain.ProductData so the footprint calculator can
// consume it without an intermediate mapping step.
type SustainabilityData struct {
	sustain.ProductData
}

func (d SustainabilityData) Value() (driver.Value, error) {
	return json.Marshal(d.ProductData)
}

func (d *SustainabilityData) Scan(src interface{}) error {
	return scanJSONB(src, &d.ProductData)
}

// FootprintBreakdownData is the cached per-stage footprint, stored as JSONB
// alongside the total so the storefront can render it without recomputing.
type FootprintBreakdownData struct {
	sustain.FootprintBreakdown
}

func (d FootprintBreakdownData) Value() (driver.Value, error) {
	return json.Marshal(d.FootprintBreakdown)
}

func (d *FootprintBreakdownData) Scan(src interface{}) error {
	return scanJSONB(src, &d.FootprintBreakdown)
}

// StringList is a JSONB-backed string slice, used for the flat material
// name list on products that have no full lifecycle declaration.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSONB(src, (*[]string)(l))
}

func scanJSONB(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("jsonb: unsupported source type")
	}
}

// Product is a catalog item enriched by the sustainability pipeline.
// CarbonFootprintKg, EcoScore and FootprintBreakdown are derived columns:
// they cache the calculator output and are refreshed by the footprint
// worker whenever the lifecycle declaration changes.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string `gorm:"index;not null"`
	Brand       *string
	ImageURL    *string

	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock          int             `gorm:"not null;default:0"`
	ExpirationDate *time.Time      `gorm:"index"`

	WeightKg       float64
	Materials      StringList          `gorm:"type:jsonb"`
	Sustainability *SustainabilityData `gorm:"type:jsonb"`

	CarbonFootprintKg  *float64
	EcoScore           *int
	FootprintBreakdown *FootprintBreakdownData `gorm:"type:jsonb"`
	FootprintUpdatedAt *time.Time

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SustainData returns the lifecycle declaration, or nil when the product
// only carries a flat material list.
func (p *Product) SustainData() *sustain.ProductData {
	if p.Sustainability == nil {
		return nil
	}
	return &p.Sustainability.ProductData
}
