package sustain

// ScoreTables holds the lookup maps used by the eco-score engine. The tables
// are injected into the Engine (never package-level mutable state) so tests
// can substitute alternates.
type ScoreTables struct {
	// Materials maps normalized material keys to 0–100 sustainability scores.
	Materials map[string]int
	// Manufacturing maps energy source to a 0–100 score.
	Manufacturing map[string]int
	// Transport maps mode to a 0–100 score.
	Transport map[string]int
	// EndOfLife maps disposal method to a 0–100 base score, later scaled by
	// the recyclability rate.
	EndOfLife map[string]int
}

// DefaultScoreTables returns the curated scoring tables.
func DefaultScoreTables() ScoreTables {
	return ScoreTables{
		Materials: map[string]int{
			// Textiles
			"organic_cotton":      90,
			"recycled_cotton":     85,
			"hemp":                95,
			"bamboo":              80,
			"linen":               85,
			"wool":                70,
			"silk":                60,
			"conventional_cotton": 30,
			"polyester":           20,
			"recycled_polyester":  75,
			"nylon":               15,
			"acrylic":             10,

			// Plastics
			"recycled_plastic":    70,
			"bioplastic":          80,
			"compostable_plastic": 85,
			"virgin_plastic":      10,

			// Metals
			"recycled_aluminum": 90,
			"recycled_steel":    85,
			"virgin_aluminum":   40,
			"virgin_steel":      50,

			// Wood & paper
			"fsc_certified_wood": 85,
			"recycled_paper":     90,
			"bamboo_wood":        80,
			"virgin_wood":        60,

			// Glass
			"recycled_glass": 85,
			"virgin_glass":   70,

			// Food & beverages
			"organic":      90,
			"fair_trade":   85,
			"local":        80,
			"seasonal":     75,
			"conventional": 30,
		},
		Manufacturing: map[string]int{
			"renewable":     95,
			"solar":         90,
			"wind":          90,
			"hydro":         85,
			"nuclear":       70,
			"gas":           40,
			"coal":          10,
			"globalAverage": 50,
		},
		Transport: map[string]int{
			"ship":  60,
			"train": 80,
			"truck": 40,
			"plane": 10,
			"van":   50,
			"local": 95,
		},
		EndOfLife: map[string]int{
			"recycling":    80,
			"compost":      90,
			"reuse":        95,
			"landfill":     10,
			"incineration": 30,
		},
	}
}
