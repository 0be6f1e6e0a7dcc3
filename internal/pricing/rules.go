// Package pricing implements the rule-based dynamic pricing engine: a
// prioritized set of stacking discount rules over expiry urgency and stock
// level. The engine is a pure function of its input and an injected clock.
package pricing

// RuleContext is the pre-computed predicate input shared by all rules.
type RuleContext struct {
	HasExpiry       bool
	DaysUntilExpiry int // undefined when HasExpiry is false
	Stock           int
}

// Rule is one discount rule. Rules are evaluated in descending Priority
// order; every matching rule applies its percentage to the remaining price.
type Rule struct {
	ID          string
	Name        string
	Condition   func(RuleContext) bool
	DiscountPct float64
	// MaxDiscountPct, when > 0, caps the cumulative discount from the
	// original price after this rule applies.
	MaxDiscountPct float64
	Priority       int
}

// DefaultRules is the shipped rule table. Expiry rules require stock on hand;
// the stock rules are independent of expiry.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:   "critical-expiry",
			Name: "Critical Expiry",
			Condition: func(ctx RuleContext) bool {
				return ctx.HasExpiry && ctx.DaysUntilExpiry <= 3 && ctx.Stock > 0
			},
			DiscountPct: 50,
			Priority:    100,
		},
		{
			ID:   "high-expiry",
			Name: "High Expiry Urgency",
			Condition: func(ctx RuleContext) bool {
				return ctx.HasExpiry && ctx.DaysUntilExpiry <= 7 && ctx.DaysUntilExpiry > 3 && ctx.Stock > 0
			},
			DiscountPct: 30,
			Priority:    90,
		},
		{
			ID:   "medium-expiry",
			Name: "Medium Expiry Urgency",
			Condition: func(ctx RuleContext) bool {
				return ctx.HasExpiry && ctx.DaysUntilExpiry <= 14 && ctx.DaysUntilExpiry > 7 && ctx.Stock > 0
			},
			DiscountPct: 20,
			Priority:    80,
		},
		{
			ID:   "low-expiry",
			Name: "Low Expiry Urgency",
			Condition: func(ctx RuleContext) bool {
				return ctx.HasExpiry && ctx.DaysUntilExpiry <= 30 && ctx.DaysUntilExpiry > 14 && ctx.Stock > 0
			},
			DiscountPct: 10,
			Priority:    70,
		},
		{
			ID:   "high-stock",
			Name: "High Stock Discount",
			Condition: func(ctx RuleContext) bool {
				return ctx.Stock > 100
			},
			DiscountPct: 5,
			Priority:    60,
		},
		{
			ID:   "low-stock",
			Name: "Low Stock Clearance",
			Condition: func(ctx RuleContext) bool {
				return ctx.Stock <= 10 && ctx.Stock > 0
			},
			DiscountPct: 15,
			Priority:    50,
		},
	}
}
