package dto

import "ecostore/internal/sustain"

// EcoScoreBreakdown mirrors the engine's weighted components for display.
type EcoScoreBreakdown struct {
	Carbon        int `json:"carbon"`
	Materials     int `json:"materials"`
	Manufacturing int `json:"manufacturing"`
	Transport     int `json:"transport"`
	EndOfLife     int `json:"end_of_life"`
}

// InsightResponse is the full sustainability card for one product: footprint
// with per-stage breakdown, eco-score with grade, and the star rating.
type InsightResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`

	CarbonFootprintKg float64                    `json:"carbon_footprint_kg"`
	Breakdown         sustain.FootprintBreakdown `json:"breakdown"`
	FootprintLabel    string                     `json:"footprint_label"`
	FootprintText     string                     `json:"footprint_text"`
	CarbonEquivalent  string                     `json:"carbon_equivalent"`
	MaterialDetail    map[string]float64         `json:"material_detail,omitempty"`
	TransportDetail   map[string]float64         `json:"transport_detail,omitempty"`

	EcoScore        int               `json:"eco_score"`
	EcoScore10      float64           `json:"eco_score_10"`
	Grade           string            `json:"grade"`
	GradeColor      string            `json:"grade_color"`
	GradeText       string            `json:"grade_text"`
	GradeEquivalent string            `json:"grade_equivalent"`
	ScoreBreakdown  EcoScoreBreakdown `json:"score_breakdown"`

	Stars     int    `json:"stars"`
	StarLabel string `json:"star_label"`
}
