// Package recommend ranks alternative products by a weighted similarity
// metric over eco-score, category, price, and material overlap. The ranker
// takes precomputed eco-scores so it stays pure; callers score candidates
// once and rank as often as they like.
package recommend

import (
	"math"
	"sort"
	"strings"
)

// Similarity component weights.
const (
	weightEcoScore = 0.4
	weightCategory = 0.3
	weightPrice    = 0.2
	weightMaterial = 0.1
)

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultLimit = 4

// tieBreakMargin: candidates whose similarity differs by less than this are
// ordered by eco-score instead.
const tieBreakMargin = 10

// Item is the slice of product state the ranker needs.
type Item struct {
	ID        string
	Category  string
	Price     float64
	Materials []string
	EcoScore  int // canonical 0–100
}

// Similarity returns a 0–100 similarity between two products. All four
// component terms are symmetric, so Similarity(a, b) == Similarity(b, a).
func Similarity(a, b Item) int {
	scoreSim := 1 - math.Abs(float64(a.EcoScore)-float64(b.EcoScore))/100

	categorySim := 0.0
	if a.Category == b.Category {
		categorySim = 1
	}

	priceSim := 0.0
	if maxPrice := math.Max(a.Price, b.Price); maxPrice > 0 {
		priceSim = math.Max(0, 1-math.Abs(a.Price-b.Price)/maxPrice)
	}

	materialSim := jaccard(a.Materials, b.Materials)

	sim := scoreSim*weightEcoScore +
		categorySim*weightCategory +
		priceSim*weightPrice +
		materialSim*weightMaterial
	return int(math.Round(sim * 100))
}

// Rank returns up to limit candidates ordered by similarity to current,
// excluding current itself. Near-ties go to the greener product.
func Rank(current Item, candidates []Item, limit int) []Item {
	if limit <= 0 {
		limit = DefaultLimit
	}

	type scored struct {
		item Item
		sim  int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == current.ID {
			continue
		}
		ranked = append(ranked, scored{item: c, sim: Similarity(current, c)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if abs(a.sim-b.sim) < tieBreakMargin {
			return a.item.EcoScore > b.item.EcoScore
		}
		return a.sim > b.sim
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Item, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// jaccard is the intersection-over-union of the two material sets,
// case-insensitive.
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	union := make(map[string]struct{}, len(setA)+len(setB))
	intersection := 0
	for m := range setA {
		union[m] = struct{}{}
		if _, ok := setB[m]; ok {
			intersection++
		}
	}
	for m := range setB {
		union[m] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func toSet(materials []string) map[string]struct{} {
	set := make(map[string]struct{}, len(materials))
	for _, m := range materials {
		set[strings.ToLower(m)] = struct{}{}
	}
	return set
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
