package pricing

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Urgency classifies how soon a product expires.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Input is the commercial state the engine prices against.
type Input struct {
	Price          decimal.Decimal
	Stock          int
	ExpirationDate *time.Time
}

// Result is the computed pricing outcome. Discount percentage and amount are
// derived from the original/discounted difference, never summed from rule
// percentages.
type Result struct {
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	DiscountedPrice    decimal.Decimal `json:"discountedPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	AppliedRules       []string        `json:"appliedRules"`
	IsOnSale           bool            `json:"isOnSale"`
	UrgencyLevel       Urgency         `json:"urgencyLevel"`
	DaysUntilExpiry    *int            `json:"daysUntilExpiry,omitempty"`
}

// Engine evaluates the rule table with an injectable clock, so expiry math is
// deterministic under test.
type Engine struct {
	rules []Rule
	now   func() time.Time
}

// NewEngine returns an Engine over the default rule table using the real clock.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules(), now: time.Now}
}

// WithRules substitutes the rule table and returns the engine.
func (e *Engine) WithRules(rules []Rule) *Engine {
	e.rules = rules
	return e
}

// WithClock substitutes the time source and returns the engine.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

var oneHundred = decimal.NewFromInt(100)

// Compute applies every matching rule, highest priority first, each one
// discounting the remaining (already-discounted) price. A zero-value Input
// yields a zero-price, no-discount result — the engine never errors.
func (e *Engine) Compute(in Input) Result {
	original := in.Price
	if original.IsNegative() {
		original = decimal.Zero
	}
	discounted := original

	ctx := RuleContext{Stock: in.Stock}
	var daysUntilExpiry *int
	if in.ExpirationDate != nil {
		days := daysUntil(e.now(), *in.ExpirationDate)
		daysUntilExpiry = &days
		ctx.HasExpiry = true
		ctx.DaysUntilExpiry = days
	}

	// Stable sort: priority descending, declaration order breaks ties.
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })

	applied := []string{}
	for _, rule := range rules {
		if rule.Condition == nil || !rule.Condition(ctx) {
			continue
		}
		pct := decimal.NewFromFloat(rule.DiscountPct)
		discounted = discounted.Mul(oneHundred.Sub(pct)).Div(oneHundred)
		applied = append(applied, rule.Name)

		// Clamp cumulative discount against the original price.
		if rule.MaxDiscountPct > 0 {
			maxAmount := original.Mul(decimal.NewFromFloat(rule.MaxDiscountPct)).Div(oneHundred)
			if original.Sub(discounted).GreaterThan(maxAmount) {
				discounted = original.Sub(maxAmount)
			}
		}
	}

	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	discounted = discounted.Round(2)

	discountAmount := original.Sub(discounted).Round(2)
	discountPct := decimal.Zero
	if original.IsPositive() {
		discountPct = discountAmount.Div(original).Mul(oneHundred).Round(2)
	}

	return Result{
		OriginalPrice:      original,
		DiscountedPrice:    discounted,
		DiscountPercentage: discountPct,
		DiscountAmount:     discountAmount,
		AppliedRules:       applied,
		IsOnSale:           discounted.LessThan(original),
		UrgencyLevel:       urgencyLevel(daysUntilExpiry),
		DaysUntilExpiry:    daysUntilExpiry,
	}
}

// daysUntil is the ceiling of the interval in whole days, matching the
// storefront convention that a product expiring later today counts as day 1.
func daysUntil(now, expiry time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

func urgencyLevel(daysUntilExpiry *int) Urgency {
	if daysUntilExpiry == nil {
		return UrgencyLow
	}
	switch d := *daysUntilExpiry; {
	case d <= 3:
		return UrgencyCritical
	case d <= 7:
		return UrgencyHigh
	case d <= 14:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// BadgeColor returns the storefront badge classes for an urgency level.
func BadgeColor(u Urgency) string {
	switch u {
	case UrgencyCritical:
		return "bg-red-500 text-white"
	case UrgencyHigh:
		return "bg-orange-500 text-white"
	case UrgencyMedium:
		return "bg-yellow-500 text-black"
	case UrgencyLow:
		return "bg-green-500 text-white"
	default:
		return "bg-gray-500 text-white"
	}
}

// UrgencyMessage phrases the time pressure for display.
func UrgencyMessage(daysUntilExpiry *int) string {
	if daysUntilExpiry == nil {
		return ""
	}
	switch d := *daysUntilExpiry; {
	case d <= 0:
		return "Expired"
	case d <= 3:
		return "Expires soon!"
	case d <= 7:
		return "Limited time!"
	case d <= 14:
		return "Expiring soon"
	case d <= 30:
		return "Best before"
	default:
		return ""
	}
}
