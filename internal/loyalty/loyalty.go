// Package loyalty holds the pure points/levels math of the rewards program.
// Persistence of user progress lives in the hosted backend; this package only
// answers "how many points is this worth" and "what level is this user".
package loyalty

import "github.com/shopspring/decimal"

// Level is one tier of the rewards ladder.
type Level struct {
	Level       int      `json:"level"`
	Title       string   `json:"title"`
	MinPoints   int      `json:"min_points"`
	DiscountPct int      `json:"discount_percentage"`
	BadgeColor  string   `json:"badge_color"`
	Benefits    []string `json:"benefits"`
}

// Levels is the rewards ladder, ascending by MinPoints.
func Levels() []Level {
	return []Level{
		{1, "Eco Explorer", 0, 5, "#10B981",
			[]string{"5% discount on eco-friendly products", "Free shipping on orders over ₹500"}},
		{2, "Green Guardian", 100, 10, "#059669",
			[]string{"10% discount on all products", "Free shipping on all orders", "Early access to sales"}},
		{3, "Sustainability Champion", 300, 15, "#047857",
			[]string{"15% discount on all products", "Priority customer support", "Exclusive product access"}},
		{4, "Earth Warrior", 600, 20, "#065F46",
			[]string{"20% discount on all products", "VIP customer status", "Personal shopping assistant"}},
		{5, "Planet Protector", 1000, 25, "#064E3B",
			[]string{"25% discount on all products", "Lifetime VIP status", "Custom product requests"}},
	}
}

// LevelForPoints returns the highest level whose threshold the total meets.
func LevelForPoints(totalPoints int) Level {
	levels := Levels()
	current := levels[0]
	for _, lvl := range levels {
		if totalPoints >= lvl.MinPoints {
			current = lvl
		}
	}
	return current
}

// ecoFriendlyThreshold: orders of products at or above this eco-score earn
// double purchase points.
const ecoFriendlyThreshold = 70

// PurchasePoints awards 1 point per ₹100 spent, doubled for eco-friendly
// purchases.
func PurchasePoints(amount decimal.Decimal, ecoScore int) int {
	if amount.IsNegative() {
		return 0
	}
	base := int(amount.Div(decimal.NewFromInt(100)).IntPart())
	if ecoScore >= ecoFriendlyThreshold {
		return base * 2
	}
	return base
}

// CarbonOffsetPoints awards 10 points per kg CO2e offset.
func CarbonOffsetPoints(kgCO2 float64) int {
	if kgCO2 <= 0 {
		return 0
	}
	return int(kgCO2 * 10)
}

// Fixed awards for non-purchase activity.
const (
	ReviewPoints      = 10
	SocialSharePoints = 5
	ReferralPoints    = 25
	DailyLoginPoints  = 2
	TreePlantedPoints = 15
)
