// Package sustain implements the deterministic sustainability pipeline:
// emission-factor lookup, lifecycle carbon footprint calculation, and the
// eco-score engine. Everything in this package is a pure function over its
// input and a set of immutable lookup tables — no I/O, no hidden state —
// so results are idempotent and safe to compute concurrently.
package sustain

// Factors is the emission-factor table used by the footprint calculator.
// Values are kg CO2e per unit (kg of material, tonne-km of transport,
// kWh of energy, kg of disposed material). The table is injected into the
// calculator so tests and callers can substitute alternates; the curated
// defaults come from published LCA figures.
type Factors struct {
	// Materials maps material type → variant → kg CO2e per kg.
	// The empty-string variant is the base (conventional/primary) factor.
	Materials map[string]map[string]float64
	// Transport maps mode → kg CO2e per tonne-km.
	Transport map[string]float64
	// Energy maps source (including regional grids) → kg CO2e per kWh.
	Energy map[string]float64
	// Disposal maps end-of-life method → kg CO2e per kg.
	// Negative values are credits (emissions saved).
	Disposal map[string]float64
}

// DefaultFactors returns the built-in emission-factor table.
func DefaultFactors() Factors {
	return Factors{
		Materials: map[string]map[string]float64{
			// Textiles
			"cotton": {
				"":             5.5, // conventional
				"conventional": 5.5,
				"organic":      2.5,
				"recycled":     1.5,
			},
			"polyester": {
				"":         7.2, // virgin
				"virgin":   7.2,
				"recycled": 2.1,
			},
			"wool": {
				"":             12.0,
				"conventional": 12.0,
				"organic":      8.0,
				"recycled":     3.6,
			},
			"silk":  {"": 27.0},
			"linen": {"": 2.1},
			"hemp":  {"": 2.15},

			// Plastics
			"plastic": {
				"":         6.0, // mixed average
				"pet":      3.2,
				"pp":       2.7,
				"ps":       3.4,
				"pvc":      3.4,
				"recycled": 1.5,
			},

			// Metals
			"metal": {"": 2.0}, // unspecified metal, average
			"aluminum": {
				"":         8.24, // primary
				"primary":  8.24,
				"recycled": 0.82,
			},
			"steel": {
				"":         1.9,
				"primary":  1.9,
				"recycled": 0.7,
			},

			// Paper and wood
			"paper": {
				"":         1.0, // virgin
				"virgin":   1.0,
				"recycled": 0.7,
			},
			"wood":      {"": 0.5},
			"cardboard": {"": 0.8},

			// Glass
			"glass": {
				"":          0.85, // container glass
				"container": 0.85,
				"flat":      1.0,
				"recycled":  0.6,
			},
		},
		Transport: map[string]float64{
			"ship":  0.01, // ocean freight
			"truck": 0.1,  // 32+ ton truck
			"train": 0.03, // rail freight
			"plane": 0.8,  // air freight
			"van":   0.3,  // light commercial vehicle
			"car":   0.2,
		},
		Energy: map[string]float64{
			// Regional electricity grids
			"globalAverage": 0.475,
			"europe":        0.276,
			"northAmerica":  0.389,
			"asia":          0.517,
			"china":         0.583,
			"india":         0.708,
			"uk":            0.233,
			"germany":       0.364,
			"france":        0.068, // mostly nuclear
			"us":            0.386,
			"canada":        0.13,

			// Renewable sources
			"renewable": 0.05, // wind/solar mix
			"wind":      0.011,
			"solar":     0.048,
			"hydro":     0.024,
			"nuclear":   0.012,

			// Fossil fuels
			"coal": 0.96,
			"gas":  0.469,
			"oil":  0.79,
		},
		Disposal: map[string]float64{
			"landfill":     0.1, // decomposition emissions
			"incineration": 0.5, // with energy recovery
			"recycling":    -0.1,
			"composting":   0.02,
			"reuse":        -1.0,
		},
	}
}

// MaterialFactor resolves the production factor for (materialType, variant).
// Unknown variants fall back to the base factor; unknown materials yield 0.
func (f Factors) MaterialFactor(materialType, variant string) float64 {
	variants, ok := f.Materials[materialType]
	if !ok {
		return 0
	}
	if variant != "" {
		if v, ok := variants[variant]; ok {
			return v
		}
	}
	return variants[""]
}

// TransportFactor resolves the tonne-km factor for a transport mode.
func (f Factors) TransportFactor(mode string) float64 {
	return f.Transport[mode]
}

// EnergyFactor resolves the per-kWh factor for an energy source or grid region.
func (f Factors) EnergyFactor(source string) float64 {
	return f.Energy[source]
}

// DisposalFactor resolves the per-kg factor for an end-of-life method.
func (f Factors) DisposalFactor(method string) float64 {
	return f.Disposal[method]
}
