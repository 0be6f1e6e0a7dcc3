package sustain

import (
	"fmt"
	"math"
)

// EcoRating is the letter-grade presentation of an eco-score.
type EcoRating struct {
	Score       int    `json:"score"`
	Grade       string `json:"grade"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Equivalent  string `json:"equivalent"`
}

// Rating maps a 0–100 eco-score to its display grade. The grade boundaries
// are a contract; colors and texts are presentation.
func Rating(score int) EcoRating {
	switch {
	case score >= 90:
		return EcoRating{score, "A+", "#22c55e", "Excellent", "Equivalent to planting 10 trees"}
	case score >= 80:
		return EcoRating{score, "A", "#16a34a", "Very Good", "Equivalent to planting 7 trees"}
	case score >= 70:
		return EcoRating{score, "B", "#ca8a04", "Good", "Equivalent to planting 5 trees"}
	case score >= 60:
		return EcoRating{score, "C", "#dc2626", "Average", "Equivalent to planting 3 trees"}
	case score >= 50:
		return EcoRating{score, "D", "#991b1b", "Below Average", "Equivalent to planting 1 tree"}
	case score >= 40:
		return EcoRating{score, "E", "#7f1d1d", "Poor", "No environmental benefit"}
	default:
		return EcoRating{score, "F", "#450a0a", "Very Poor", "High environmental impact"}
	}
}

// FootprintInfo is a human-readable summary of a footprint figure.
type FootprintInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Equivalent  string `json:"equivalent"`
}

// FootprintDescription classifies a footprint figure and phrases it as an
// everyday equivalent (car km, phone charges).
func FootprintDescription(footprintKg float64) FootprintInfo {
	kmDriven := int(math.Round(footprintKg / 0.12))     // avg car: 0.12 kg CO2e per km
	phoneCharges := int(math.Round(footprintKg / 0.08)) // smartphone charge: 0.08 kg CO2e

	switch {
	case footprintKg < 0.1:
		return FootprintInfo{"Negligible", "Minimal environmental impact",
			fmt.Sprintf("Equivalent to charging a smartphone ~%d times", phoneCharges)}
	case footprintKg < 1:
		return FootprintInfo{"Very Low", "Very low environmental impact",
			fmt.Sprintf("Equivalent to charging a smartphone ~%d times", phoneCharges)}
	case footprintKg < 5:
		return FootprintInfo{"Low", "Low environmental impact",
			fmt.Sprintf("Equivalent to driving ~%d km in a car", kmDriven)}
	case footprintKg < 20:
		return FootprintInfo{"Moderate", "Moderate environmental impact",
			fmt.Sprintf("Equivalent to driving ~%d km in a car", kmDriven)}
	case footprintKg < 100:
		return FootprintInfo{"High", "High environmental impact",
			fmt.Sprintf("Equivalent to driving ~%d km in a car", kmDriven)}
	default:
		return FootprintInfo{"Very High", "Very high environmental impact",
			fmt.Sprintf("Equivalent to %.0f km of air travel", footprintKg/0.8)}
	}
}

// starThresholds map star count → max footprint kg per product category.
var starThresholds = map[string]map[int]float64{
	"clothing":    {5: 2, 4: 5, 3: 10, 2: 20, 1: 50},
	"electronics": {5: 10, 4: 25, 3: 50, 2: 100, 1: 200},
	"furniture":   {5: 20, 4: 50, 3: 100, 2: 200, 1: 500},
	"food":        {5: 0.5, 4: 1, 3: 2, 2: 5, 1: 10},
	"default":     {5: 1, 4: 5, 3: 10, 2: 20, 1: 50},
}

var starLabels = map[int]string{
	5: "Excellent",
	4: "Very Good",
	3: "Good",
	2: "Fair",
	1: "Poor",
	0: "Very Poor",
}

// StarRating converts a footprint into a 0–5 star rating using
// category-specific thresholds.
func StarRating(footprintKg float64, category string) (stars int, label string) {
	thresholds, ok := starThresholds[category]
	if !ok {
		thresholds = starThresholds["default"]
	}
	for s := 5; s >= 1; s-- {
		if footprintKg <= thresholds[s] {
			stars = s
			break
		}
	}
	return stars, starLabels[stars]
}
