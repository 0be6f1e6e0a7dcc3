package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, score int) Item {
	return Item{
		ID:        id,
		Category:  "clothing",
		Price:     500,
		Materials: []string{"cotton", "polyester"},
		EcoScore:  score,
	}
}

func TestSimilarityIdentical(t *testing.T) {
	a := item("a", 80)
	b := item("b", 80)
	assert.Equal(t, 100, Similarity(a, b))
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := []struct{ a, b Item }{
		{item("a", 90), item("b", 10)},
		{Item{ID: "a", Category: "food", Price: 20, Materials: []string{"Paper"}, EcoScore: 55},
			Item{ID: "b", Category: "clothing", Price: 900, Materials: []string{"paper", "glass"}, EcoScore: 70}},
		{Item{ID: "a"}, Item{ID: "b", Price: 100}},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p.a, p.b), Similarity(p.b, p.a))
	}
}

func TestSimilarityComponents(t *testing.T) {
	a := Item{ID: "a", Category: "clothing", Price: 100, Materials: []string{"cotton"}, EcoScore: 80}
	b := Item{ID: "b", Category: "food", Price: 50, Materials: []string{"Cotton", "hemp"}, EcoScore: 60}

	// eco: 1-20/100=0.8 → .32; category 0; price 1-50/100=0.5 → .10;
	// jaccard 1/2 → .05. Total 0.47 → 47.
	assert.Equal(t, 47, Similarity(a, b))
}

func TestSimilarityZeroPricesGuarded(t *testing.T) {
	a := Item{ID: "a", EcoScore: 50}
	b := Item{ID: "b", EcoScore: 50}
	// eco closeness 1 → .4; price term 0 (max=0); no materials → 0.
	assert.Equal(t, 40, Similarity(a, b))
}

func TestRankExcludesCurrent(t *testing.T) {
	current := item("p", 80)
	candidates := []Item{current, item("a", 70), item("b", 60), item("c", 50)}

	ranked := Rank(current, candidates, 4)
	require.Len(t, ranked, 3)
	for _, r := range ranked {
		assert.NotEqual(t, "p", r.ID)
	}
}

func TestRankTieBreakPrefersGreener(t *testing.T) {
	current := item("p", 80)
	// Both candidates differ from current only in eco-score, so their
	// similarities land within the tie margin; the greener one must win.
	a := item("a", 75)
	b := item("b", 85)

	ranked := Rank(current, []Item{a, b}, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].ID)
}

func TestRankOrdersBySimilarity(t *testing.T) {
	current := item("p", 80)
	similar := item("same-category", 80)
	other := Item{ID: "other", Category: "electronics", Price: 9000, Materials: []string{"steel"}, EcoScore: 20}

	ranked := Rank(current, []Item{other, similar}, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "same-category", ranked[0].ID)
}

func TestRankDefaultLimit(t *testing.T) {
	current := item("p", 80)
	candidates := make([]Item, 0, 10)
	for i := 0; i < 10; i++ {
		candidates = append(candidates, item(string(rune('a'+i)), 40+i))
	}
	ranked := Rank(current, candidates, 0)
	assert.Len(t, ranked, DefaultLimit)
}

func TestJaccardCaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, jaccard([]string{"Cotton"}, []string{"cotton"}))
	assert.Equal(t, 0.0, jaccard(nil, []string{"cotton"}))
	assert.Equal(t, 0.0, jaccard(nil, nil))
}
