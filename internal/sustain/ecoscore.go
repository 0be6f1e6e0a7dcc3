package sustain

import (
	"math"
	"strings"
)

// Component weights of the canonical 0–100 eco-score.
const (
	weightCarbon        = 0.40
	weightMaterials     = 0.25
	weightManufacturing = 0.15
	weightTransport     = 0.10
	weightEndOfLife     = 0.10
)

// neutralScore stands in for any component with no usable data.
const neutralScore = 50

// ScoreInput is what the eco-score engine needs about a product. Data may be
// nil, in which case a coarse estimate is computed from the footprint and the
// legacy material name list.
type ScoreInput struct {
	Name              string // for tracing only
	CarbonFootprintKg float64
	Data              *ProductData
	MaterialNames     []string // legacy flat list, fallback path only
}

// EcoScore is the composite sustainability rating and its components,
// all on the canonical 0–100 scale.
type EcoScore struct {
	Total                  int `json:"total"`
	CarbonScore            int `json:"carbonScore"`
	MaterialSustainability int `json:"materialSustainability"`
	ManufacturingEnergy    int `json:"manufacturingEnergy"`
	PackagingTransport     int `json:"packagingTransport"`
	EndOfLife              int `json:"endOfLife"`
}

// Scale10 is the 0–10 presentation adapter, rounded to one decimal.
func (s EcoScore) Scale10() float64 {
	return math.Round(float64(s.Total)) / 10
}

// Engine computes eco-scores against injected score tables.
type Engine struct {
	tables ScoreTables
	tracer Tracer
}

// NewEngine returns an Engine over the given tables with no tracing.
func NewEngine(tables ScoreTables) *Engine {
	return &Engine{tables: tables, tracer: NopTracer{}}
}

// WithTracer attaches a scoring observer and returns the engine.
func (e *Engine) WithTracer(t Tracer) *Engine {
	e.tracer = t
	return e
}

// ComputeEcoScore scores a product with the default tables.
func ComputeEcoScore(in ScoreInput) EcoScore {
	return NewEngine(DefaultScoreTables()).Score(in)
}

// Score computes the weighted 0–100 eco-score. Products without detailed
// sustainability data get the coarse two-factor estimate blended with
// neutral components, never an error.
func (e *Engine) Score(in ScoreInput) EcoScore {
	if in.Data == nil {
		return e.basicScore(in)
	}

	carbon := carbonSubScore(in.CarbonFootprintKg)
	material := e.materialSubScore(in.Data.Materials)
	manufacturing := e.manufacturingSubScore(in.Data.Manufacturing)
	transport := e.transportSubScore(in.Data.Transport)
	endOfLife := e.endOfLifeSubScore(in.Data.Lifecycle)

	e.tracer.SubScore(in.Name, "carbon", carbon, weightCarbon)
	e.tracer.SubScore(in.Name, "materials", material, weightMaterials)
	e.tracer.SubScore(in.Name, "manufacturing", manufacturing, weightManufacturing)
	e.tracer.SubScore(in.Name, "packaging_transport", transport, weightTransport)
	e.tracer.SubScore(in.Name, "end_of_life", endOfLife, weightEndOfLife)

	total := clampScore(int(math.Round(
		carbon*weightCarbon +
			material*weightMaterials +
			manufacturing*weightManufacturing +
			transport*weightTransport +
			endOfLife*weightEndOfLife)))
	e.tracer.Total(in.Name, total)

	return EcoScore{
		Total:                  total,
		CarbonScore:            clampScore(int(math.Round(carbon))),
		MaterialSustainability: clampScore(int(math.Round(material))),
		ManufacturingEnergy:    clampScore(int(math.Round(manufacturing))),
		PackagingTransport:     clampScore(int(math.Round(transport))),
		EndOfLife:              clampScore(int(math.Round(endOfLife))),
	}
}

// carbonSubScore buckets the total footprint into a descending score band.
// A missing or zero footprint is neutral, not perfect.
func carbonSubScore(footprintKg float64) float64 {
	if footprintKg <= 0 || footprintKg != footprintKg {
		return neutralScore
	}
	switch {
	case footprintKg <= 50:
		return 100
	case footprintKg <= 100:
		return 90
	case footprintKg <= 200:
		return 80
	case footprintKg <= 300:
		return 70
	case footprintKg <= 400:
		return 60
	case footprintKg <= 500:
		return 50
	case footprintKg <= 600:
		return 40
	case footprintKg <= 700:
		return 30
	case footprintKg <= 800:
		return 20
	default:
		return 10
	}
}

// materialSubScore averages per-material table scores weighted by their
// percentage share, with variant and recycled-content adjustments.
func (e *Engine) materialSubScore(materials []Material) float64 {
	if len(materials) == 0 {
		return neutralScore
	}

	var weightedSum, totalWeight float64
	for _, mat := range materials {
		matType := strings.ToLower(strings.TrimSpace(mat.Type))
		variant := strings.ToLower(strings.TrimSpace(mat.Variant))

		score, ok := e.tables.Materials[matType]
		if !ok {
			score = neutralScore
		}

		switch {
		case variant == "organic" && strings.Contains(matType, "cotton"):
			score = e.tables.Materials["organic_cotton"]
		case variant == "recycled":
			score = min(100, score+30)
		case variant == "virgin":
			score = max(0, score-20)
		}

		if mat.IsRecycled {
			score = min(100, score+25)
		}

		share := clampNonNegative(mat.Percentage) / 100
		weightedSum += float64(score) * share
		totalWeight += share
	}

	if totalWeight == 0 {
		return neutralScore
	}
	return math.Round(weightedSum / totalWeight)
}

func (e *Engine) manufacturingSubScore(m Manufacturing) float64 {
	source := m.EnergySource
	if source == "" {
		source = "globalAverage"
	}
	if score, ok := e.tables.Manufacturing[source]; ok {
		return float64(score)
	}
	return neutralScore
}

// transportSubScore is the distance-weighted average of per-mode scores.
func (e *Engine) transportSubScore(legs []TransportLeg) float64 {
	if len(legs) == 0 {
		return neutralScore
	}

	var weightedSum, totalDistance float64
	for _, leg := range legs {
		score, ok := e.tables.Transport[leg.Mode]
		if !ok {
			score = neutralScore
		}
		distance := clampNonNegative(leg.DistanceKm)
		weightedSum += float64(score) * distance
		totalDistance += distance
	}

	if totalDistance == 0 {
		return neutralScore
	}
	return math.Round(weightedSum / totalDistance)
}

func (e *Engine) endOfLifeSubScore(lc Lifecycle) float64 {
	method := lc.DisposalMethod
	if method == "" {
		method = "recycling"
	}
	base, ok := e.tables.EndOfLife[method]
	if !ok {
		base = neutralScore
	}
	rate := lc.RecyclabilityRate
	if rate <= 0 {
		rate = defaultRecyclabilityRate
	}
	return math.Round(float64(base) * rate)
}

// basicScore is the coarse estimate for products lacking detailed data:
// keyword-matched material score and a linear carbon penalty, blended with
// neutral values for the remaining components.
func (e *Engine) basicScore(in ScoreInput) EcoScore {
	material := float64(neutralScore)
	for _, name := range in.MaterialNames {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "organic") || strings.Contains(lower, "recycled") {
			material = 75
			break
		}
		if strings.Contains(lower, "cotton") || strings.Contains(lower, "natural") {
			material = 60
		}
	}

	carbon := float64(neutralScore)
	if in.CarbonFootprintKg > 0 {
		carbon = math.Max(0, math.Min(100, 100-in.CarbonFootprintKg/10))
	}

	total := clampScore(int(math.Round(
		carbon*weightCarbon +
			material*weightMaterials +
			neutralScore*weightManufacturing +
			neutralScore*weightTransport +
			neutralScore*weightEndOfLife)))
	e.tracer.Total(in.Name, total)

	return EcoScore{
		Total:                  total,
		CarbonScore:            clampScore(int(math.Round(carbon))),
		MaterialSustainability: clampScore(int(math.Round(material))),
		ManufacturingEnergy:    neutralScore,
		PackagingTransport:     neutralScore,
		EndOfLife:              neutralScore,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
