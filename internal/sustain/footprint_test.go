package sustain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tshirtData() ProductData {
	return ProductData{
		WeightKg: 0.2,
		Materials: []Material{
			{Type: "cotton", Variant: "organic", Percentage: 80},
			{Type: "polyester", Variant: "recycled", Percentage: 20},
		},
		Manufacturing: Manufacturing{EnergySource: "wind", EnergyKwh: 2.5},
		Transport: []TransportLeg{
			{Mode: "ship", DistanceKm: 8000},
			{Mode: "truck", DistanceKm: 500},
		},
		Packaging: Packaging{Type: "paper", WeightKg: 0.05, IsRecyclable: true, IsRecycled: true},
		Lifecycle: Lifecycle{
			ExpectedLifespanYears: 3,
			UsePhaseImpact:        6,
			DisposalMethod:        "recycling",
			RecyclabilityRate:     0.8,
		},
	}
}

func TestComputeFootprintBreakdown(t *testing.T) {
	res := ComputeFootprint(tshirtData())

	// Materials: 0.2*0.8*2.5 + 0.2*0.2*2.1 = 0.4 + 0.084
	assert.InDelta(t, 0.484, res.Breakdown.Materials, 1e-9)
	// Transport: 0.2*0.01*8000/1000 + 0.2*0.1*500/1000 = 0.016 + 0.01
	assert.InDelta(t, 0.026, res.Breakdown.Transport, 1e-9)
	// Manufacturing: 2.5 kWh * 0.011
	assert.InDelta(t, 0.0275, res.Breakdown.Manufacturing, 1e-9)
	// Packaging: 0.05 * 1.0 * 0.3 (recycled)
	assert.InDelta(t, 0.015, res.Breakdown.Packaging, 1e-9)
	// Use phase: 6 / 3 years
	assert.InDelta(t, 2.0, res.Breakdown.UsePhase, 1e-9)
	// End of life: -(0.2 * 0.8 * 0.1) — recycling credit is negative
	assert.InDelta(t, -0.016, res.Breakdown.EndOfLife, 1e-9)

	sum := res.Breakdown.Materials + res.Breakdown.Transport + res.Breakdown.Manufacturing +
		res.Breakdown.Packaging + res.Breakdown.UsePhase + res.Breakdown.EndOfLife
	assert.InDelta(t, sum, res.Total, 1e-9)

	assert.Contains(t, res.MaterialDetail, "cotton (organic)")
	assert.Contains(t, res.TransportDetail, "ship")
}

func TestComputeFootprintIdempotent(t *testing.T) {
	data := tshirtData()
	first := ComputeFootprint(data)
	second := ComputeFootprint(data)
	assert.Equal(t, first, second)
}

func TestRecycledMaterialBonus(t *testing.T) {
	data := ProductData{
		WeightKg:  1,
		Materials: []Material{{Type: "plastic", Percentage: 100}},
		Lifecycle: Lifecycle{DisposalMethod: "landfill"},
	}
	virgin := ComputeFootprint(data)

	data.Materials[0].IsRecycled = true
	recycled := ComputeFootprint(data)

	assert.InDelta(t, virgin.Breakdown.Materials*0.3, recycled.Breakdown.Materials, 1e-9)
}

func TestCustomFactorMonotonic(t *testing.T) {
	data := ProductData{
		WeightKg:  1,
		Materials: []Material{{Type: "cotton", Percentage: 100}},
		Lifecycle: Lifecycle{DisposalMethod: "landfill"},
	}
	base := ComputeFootprint(data)

	data.Custom = &CustomFactors{Material: map[string]float64{"cotton": 50}}
	raised := ComputeFootprint(data)

	assert.Greater(t, raised.Total, base.Total)
}

func TestMaterialWeightDerivedFromPercentage(t *testing.T) {
	derived := ComputeFootprint(ProductData{
		WeightKg:  2,
		Materials: []Material{{Type: "wool", Percentage: 50}},
	})
	explicit := ComputeFootprint(ProductData{
		WeightKg:  2,
		Materials: []Material{{Type: "wool", Percentage: 50, WeightKg: 1}},
	})
	assert.InDelta(t, explicit.Breakdown.Materials, derived.Breakdown.Materials, 1e-9)
}

func TestTotalFlooredAtZero(t *testing.T) {
	// Heavy product, reusable disposal path dominated by the credit.
	res := ComputeFootprint(ProductData{
		WeightKg:  100,
		Materials: []Material{{Type: "glass", Variant: "recycled", Percentage: 10}},
		Lifecycle: Lifecycle{DisposalMethod: "recycling", RecyclabilityRate: 1},
	})
	require.GreaterOrEqual(t, res.Total, 0.0)
	// The credit itself stays visible in the breakdown.
	assert.Negative(t, res.Breakdown.EndOfLife)
}

func TestZeroLifespanContributesNothing(t *testing.T) {
	res := ComputeFootprint(ProductData{
		WeightKg:  1,
		Lifecycle: Lifecycle{ExpectedLifespanYears: 0, UsePhaseImpact: 10, DisposalMethod: "landfill"},
	})
	assert.Zero(t, res.Breakdown.UsePhase)
}

func TestZeroEfficiencyTreatedAsOne(t *testing.T) {
	unset := ComputeFootprint(ProductData{
		Manufacturing: Manufacturing{EnergySource: "coal", EnergyKwh: 10},
	})
	explicit := ComputeFootprint(ProductData{
		Manufacturing: Manufacturing{EnergySource: "coal", EnergyKwh: 10, ProcessEfficiency: 1},
	})
	assert.Equal(t, explicit.Breakdown.Manufacturing, unset.Breakdown.Manufacturing)

	halved := ComputeFootprint(ProductData{
		Manufacturing: Manufacturing{EnergySource: "coal", EnergyKwh: 10, ProcessEfficiency: 0.5},
	})
	assert.InDelta(t, unset.Breakdown.Manufacturing*2, halved.Breakdown.Manufacturing, 1e-9)
}

func TestNegativeWeightClamped(t *testing.T) {
	res := ComputeFootprint(ProductData{
		WeightKg:  -5,
		Materials: []Material{{Type: "cotton", Percentage: 100}},
		Lifecycle: Lifecycle{DisposalMethod: "landfill"},
	})
	assert.GreaterOrEqual(t, res.Total, 0.0)
	assert.Zero(t, res.Breakdown.Materials)
}

func TestPackagingTransportIncluded(t *testing.T) {
	bare := ComputeFootprint(ProductData{
		Packaging: Packaging{Type: "cardboard", WeightKg: 0.5},
	})
	withLeg := ComputeFootprint(ProductData{
		Packaging: Packaging{
			Type: "cardboard", WeightKg: 0.5,
			Transport: []TransportLeg{{Mode: "van", DistanceKm: 200}},
		},
	})
	// 0.5 kg * 0.3 per tonne-km * 200 km / 1000
	assert.InDelta(t, bare.Breakdown.Packaging+0.03, withLeg.Breakdown.Packaging, 1e-9)
}
