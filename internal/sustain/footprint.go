package sustain

import "fmt"

// ProductData is the detailed lifecycle payload attached to a product.
// JSON tags match the storefront's sustainability_data document shape so the
// same struct round-trips through the products table JSONB column.
type ProductData struct {
	WeightKg      float64        `json:"weight_kg"`
	Materials     []Material     `json:"materials"`
	Manufacturing Manufacturing  `json:"manufacturing"`
	Transport     []TransportLeg `json:"transport"`
	Packaging     Packaging      `json:"packaging"`
	Lifecycle     Lifecycle      `json:"lifecycle"`
	// Custom overrides specific emission factors for this product
	// (e.g. a supplier-audited material factor).
	Custom *CustomFactors `json:"customFactors,omitempty"`
}

// Material is one entry of a product's material composition.
type Material struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"` // 0–100 share of product weight
	WeightKg   float64 `json:"weight_kg,omitempty"`
	IsRecycled bool    `json:"isRecycled,omitempty"`
	Variant    string  `json:"variant,omitempty"` // e.g. "organic", "recycled", "virgin"
}

// TransportLeg is one segment of the product's (or packaging's) journey.
type TransportLeg struct {
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distance_km"`
	WeightKg   float64 `json:"weight_kg,omitempty"` // per-leg override
}

// Manufacturing describes the production energy profile.
type Manufacturing struct {
	EnergySource      string  `json:"energySource"`
	EnergyKwh         float64 `json:"energyKwh"`
	Location          string  `json:"location,omitempty"`
	ProcessEfficiency float64 `json:"processEfficiency,omitempty"` // 0–1, 0 means unset
}

// Packaging describes the packaging material and its own transport.
type Packaging struct {
	Type         string         `json:"type"`
	WeightKg     float64        `json:"weight_kg"`
	IsRecyclable bool           `json:"isRecyclable"`
	IsRecycled   bool           `json:"isRecycled,omitempty"`
	Transport    []TransportLeg `json:"transport,omitempty"`
}

// Lifecycle describes use phase and end of life.
type Lifecycle struct {
	ExpectedLifespanYears float64 `json:"expectedLifespan_years"`
	UsePhaseImpact        float64 `json:"usePhaseImpact,omitempty"` // total kg CO2e over the lifespan
	DisposalMethod        string  `json:"disposalMethod"`
	RecyclabilityRate     float64 `json:"recyclabilityRate,omitempty"` // 0–1, 0 means unset
}

// CustomFactors override individual table entries for one computation.
type CustomFactors struct {
	Material  map[string]float64 `json:"material,omitempty"`
	Transport map[string]float64 `json:"transport,omitempty"`
	Energy    map[string]float64 `json:"energy,omitempty"`
}

// FootprintBreakdown holds the per-stage kg CO2e contributions.
// EndOfLife can be negative (recycling credit); only the grand total is
// floored at zero.
type FootprintBreakdown struct {
	Materials     float64 `json:"materials"`
	Transport     float64 `json:"transport"`
	Manufacturing float64 `json:"manufacturing"`
	Packaging     float64 `json:"packaging"`
	UsePhase      float64 `json:"usePhase"`
	EndOfLife     float64 `json:"endOfLife"`
}

// FootprintResult is the output of the footprint calculator.
type FootprintResult struct {
	Total     float64            `json:"total"` // kg CO2e, never negative
	Breakdown FootprintBreakdown `json:"breakdown"`
	// MaterialDetail keys look like "cotton (organic) (recycled)".
	MaterialDetail map[string]float64 `json:"materialBreakdown"`
	// TransportDetail is keyed by mode.
	TransportDetail map[string]float64 `json:"transportBreakdown"`
}

// recycledMultiplier is applied to material production emissions when the
// entry is flagged as recycled content (70% reduction).
const recycledMultiplier = 0.3

// defaultRecyclabilityRate is assumed when the lifecycle omits one.
const defaultRecyclabilityRate = 0.5

// Calculator computes lifecycle footprints against an injected factor table.
type Calculator struct {
	factors Factors
}

// NewCalculator returns a Calculator using the given factor table.
func NewCalculator(f Factors) *Calculator {
	return &Calculator{factors: f}
}

// ComputeFootprint computes a footprint with the default factor table.
func ComputeFootprint(data ProductData) FootprintResult {
	return NewCalculator(DefaultFactors()).Compute(data)
}

// Compute derives the total carbon footprint and per-stage breakdown for a
// product. Missing optional fields take documented defaults; negative weights
// and percentages are clamped to zero rather than propagated.
func (c *Calculator) Compute(data ProductData) FootprintResult {
	res := FootprintResult{
		MaterialDetail:  make(map[string]float64),
		TransportDetail: make(map[string]float64),
	}

	productWeight := clampNonNegative(data.WeightKg)

	// 1. Material production
	for _, mat := range data.Materials {
		factor := c.materialFactor(data, mat.Type, mat.Variant)
		weight := clampNonNegative(mat.WeightKg)
		if weight == 0 {
			weight = productWeight * clampNonNegative(mat.Percentage) / 100
		}
		emission := weight * factor
		if mat.IsRecycled {
			emission *= recycledMultiplier
		}
		res.Breakdown.Materials += emission
		res.MaterialDetail[materialKey(mat)] += emission
	}

	// 2. Transport (kg·km → tonne·km)
	for _, leg := range data.Transport {
		emission := c.legEmission(data, leg, productWeight)
		res.Breakdown.Transport += emission
		res.TransportDetail[leg.Mode] += emission
	}

	// 3. Manufacturing energy
	efficiency := data.Manufacturing.ProcessEfficiency
	if efficiency <= 0 {
		efficiency = 1
	}
	res.Breakdown.Manufacturing = clampNonNegative(data.Manufacturing.EnergyKwh) *
		c.energyFactor(data, data.Manufacturing.EnergySource) / efficiency

	// 4. Packaging, plus packaging-specific transport
	pkgEmission := clampNonNegative(data.Packaging.WeightKg) * c.materialFactor(data, data.Packaging.Type, "")
	if data.Packaging.IsRecycled {
		pkgEmission *= recycledMultiplier
	}
	for _, leg := range data.Packaging.Transport {
		pkgEmission += c.legEmission(data, leg, clampNonNegative(data.Packaging.WeightKg))
	}
	res.Breakdown.Packaging = pkgEmission

	// 5. Use phase, amortized over the expected lifespan.
	// A zero lifespan contributes nothing rather than dividing by zero.
	if data.Lifecycle.UsePhaseImpact > 0 && data.Lifecycle.ExpectedLifespanYears > 0 {
		res.Breakdown.UsePhase = data.Lifecycle.UsePhaseImpact / data.Lifecycle.ExpectedLifespanYears
	}

	// 6. End of life. Recycling earns a credit proportional to the share of
	// material actually recycled; other methods emit on the unrecycled share.
	disposalFactor := c.factors.DisposalFactor(data.Lifecycle.DisposalMethod)
	recyclability := data.Lifecycle.RecyclabilityRate
	if recyclability <= 0 {
		recyclability = defaultRecyclabilityRate
	}
	if data.Lifecycle.DisposalMethod == "recycling" {
		res.Breakdown.EndOfLife = -(productWeight * recyclability * abs(disposalFactor))
	} else {
		res.Breakdown.EndOfLife = productWeight * disposalFactor * (1 - recyclability)
	}

	total := res.Breakdown.Materials + res.Breakdown.Transport + res.Breakdown.Manufacturing +
		res.Breakdown.Packaging + res.Breakdown.UsePhase + res.Breakdown.EndOfLife
	if total < 0 {
		total = 0
	}
	res.Total = total
	return res
}

func (c *Calculator) legEmission(data ProductData, leg TransportLeg, fallbackWeight float64) float64 {
	weight := clampNonNegative(leg.WeightKg)
	if weight == 0 {
		weight = fallbackWeight
	}
	return weight * c.transportFactor(data, leg.Mode) * clampNonNegative(leg.DistanceKm) / 1000
}

func (c *Calculator) materialFactor(data ProductData, materialType, variant string) float64 {
	if data.Custom != nil {
		if v, ok := data.Custom.Material[materialType]; ok {
			return v
		}
	}
	return c.factors.MaterialFactor(materialType, variant)
}

func (c *Calculator) transportFactor(data ProductData, mode string) float64 {
	if data.Custom != nil {
		if v, ok := data.Custom.Transport[mode]; ok {
			return v
		}
	}
	return c.factors.TransportFactor(mode)
}

func (c *Calculator) energyFactor(data ProductData, source string) float64 {
	if data.Custom != nil {
		if v, ok := data.Custom.Energy[source]; ok {
			return v
		}
	}
	return c.factors.EnergyFactor(source)
}

func materialKey(m Material) string {
	key := m.Type
	if m.Variant != "" {
		key = fmt.Sprintf("%s (%s)", key, m.Variant)
	}
	if m.IsRecycled {
		key += " (recycled)"
	}
	return key
}

func clampNonNegative(v float64) float64 {
	if v < 0 || v != v { // v != v catches NaN
		return 0
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
