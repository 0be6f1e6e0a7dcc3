package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine().WithClock(func() time.Time { return testNow })
}

func expiryIn(days int) *time.Time {
	t := testNow.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestCriticalExpiryStacksWithLowStock(t *testing.T) {
	// stock=3, expiry in 2 days: Critical Expiry (50%) applies first, then
	// Low Stock Clearance (15%) on the remaining price.
	res := testEngine().Compute(Input{
		Price:          decimal.NewFromInt(1000),
		Stock:          3,
		ExpirationDate: expiryIn(2),
	})

	require.Equal(t, []string{"Critical Expiry", "Low Stock Clearance"}, res.AppliedRules)
	// 1000 * 0.5 * 0.85 = 425
	assert.True(t, res.DiscountedPrice.Equal(decimal.NewFromInt(425)), "got %s", res.DiscountedPrice)
	assert.True(t, res.DiscountAmount.Equal(decimal.NewFromInt(575)))
	assert.True(t, res.DiscountPercentage.Equal(decimal.NewFromFloat(57.5)))
	assert.True(t, res.IsOnSale)
	assert.Equal(t, UrgencyCritical, res.UrgencyLevel)
	require.NotNil(t, res.DaysUntilExpiry)
	assert.Equal(t, 2, *res.DaysUntilExpiry)
}

func TestDiscountNotAdditive(t *testing.T) {
	res := testEngine().Compute(Input{
		Price:          decimal.NewFromInt(100),
		Stock:          5,
		ExpirationDate: expiryIn(2),
	})
	// Multiplicative 50% then 15% = 57.5% total, not 65%.
	assert.True(t, res.DiscountedPrice.Equal(decimal.NewFromFloat(42.5)), "got %s", res.DiscountedPrice)
}

func TestUrgencyBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want Urgency
	}{
		{1, UrgencyCritical},
		{3, UrgencyCritical},
		{4, UrgencyHigh},
		{7, UrgencyHigh},
		{8, UrgencyMedium},
		{14, UrgencyMedium},
		{15, UrgencyLow},
		{45, UrgencyLow},
	}
	for _, tc := range cases {
		res := testEngine().Compute(Input{
			Price:          decimal.NewFromInt(100),
			Stock:          50,
			ExpirationDate: expiryIn(tc.days),
		})
		assert.Equal(t, tc.want, res.UrgencyLevel, "days %d", tc.days)
	}
}

func TestNoExpiryDisablesExpiryRules(t *testing.T) {
	res := testEngine().Compute(Input{
		Price: decimal.NewFromInt(200),
		Stock: 5,
	})
	assert.Equal(t, []string{"Low Stock Clearance"}, res.AppliedRules)
	assert.Equal(t, UrgencyLow, res.UrgencyLevel)
	assert.Nil(t, res.DaysUntilExpiry)
}

func TestHighStockDiscount(t *testing.T) {
	res := testEngine().Compute(Input{
		Price: decimal.NewFromInt(100),
		Stock: 150,
	})
	assert.Equal(t, []string{"High Stock Discount"}, res.AppliedRules)
	assert.True(t, res.DiscountedPrice.Equal(decimal.NewFromInt(95)))
}

func TestZeroStockNoExpiryDiscount(t *testing.T) {
	res := testEngine().Compute(Input{
		Price:          decimal.NewFromInt(100),
		Stock:          0,
		ExpirationDate: expiryIn(1),
	})
	assert.Empty(t, res.AppliedRules)
	assert.False(t, res.IsOnSale)
	// Urgency still reflects the expiry even with no stock to discount.
	assert.Equal(t, UrgencyCritical, res.UrgencyLevel)
}

func TestMissingPriceDefaultsToZero(t *testing.T) {
	res := testEngine().Compute(Input{Stock: 5})
	assert.True(t, res.OriginalPrice.IsZero())
	assert.True(t, res.DiscountedPrice.IsZero())
	assert.True(t, res.DiscountPercentage.IsZero())
	assert.False(t, res.IsOnSale)
}

func TestMaxDiscountCap(t *testing.T) {
	rules := []Rule{
		{
			ID: "a", Name: "Deep Cut",
			Condition:   func(RuleContext) bool { return true },
			DiscountPct: 60, MaxDiscountPct: 40, Priority: 10,
		},
	}
	res := testEngine().WithRules(rules).Compute(Input{Price: decimal.NewFromInt(100), Stock: 1})
	assert.True(t, res.DiscountedPrice.Equal(decimal.NewFromInt(60)), "got %s", res.DiscountedPrice)
	assert.True(t, res.DiscountPercentage.Equal(decimal.NewFromInt(40)))
}

func TestPriorityOrderWithTies(t *testing.T) {
	applied := []string{}
	record := func(name string) func(RuleContext) bool {
		return func(RuleContext) bool {
			applied = append(applied, name)
			return true
		}
	}
	rules := []Rule{
		{ID: "first", Name: "first", Condition: record("first"), DiscountPct: 1, Priority: 50},
		{ID: "second", Name: "second", Condition: record("second"), DiscountPct: 1, Priority: 50},
		{ID: "top", Name: "top", Condition: record("top"), DiscountPct: 1, Priority: 99},
	}
	res := testEngine().WithRules(rules).Compute(Input{Price: decimal.NewFromInt(100), Stock: 1})
	assert.Equal(t, []string{"top", "first", "second"}, res.AppliedRules)
	assert.Equal(t, []string{"top", "first", "second"}, applied)
}

func TestComputeIdempotent(t *testing.T) {
	in := Input{Price: decimal.NewFromInt(999), Stock: 7, ExpirationDate: expiryIn(10)}
	e := testEngine()
	first := e.Compute(in)
	second := e.Compute(in)
	assert.Equal(t, first, second)
}

func TestUrgencyMessage(t *testing.T) {
	assert.Equal(t, "", UrgencyMessage(nil))
	zero, three, ten, twenty := 0, 3, 10, 20
	assert.Equal(t, "Expired", UrgencyMessage(&zero))
	assert.Equal(t, "Expires soon!", UrgencyMessage(&three))
	assert.Equal(t, "Expiring soon", UrgencyMessage(&ten))
	assert.Equal(t, "Best before", UrgencyMessage(&twenty))
}
