package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecostore/internal/dto"
	"ecostore/internal/model"
	"ecostore/internal/pricing"
	"ecostore/internal/sustain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ─── In-memory stubs ─────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListByCategory(_ context.Context, category string, _ int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, p := range r.products {
		if p.Active {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *stubProductRepo) UpdateFootprintCache(_ context.Context, id uuid.UUID, footprintKg float64,
	ecoScore int, breakdown model.FootprintBreakdownData, at time.Time) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CarbonFootprintKg = &footprintKg
	p.EcoScore = &ecoScore
	p.FootprintBreakdown = &breakdown
	p.FootprintUpdatedAt = &at
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

type stubEnqueuer struct {
	enqueued int
	failOn   int // 1-based call index that returns an error; 0 = never
	calls    int
}

func (e *stubEnqueuer) EnqueueFootprint(context.Context, interface{}) error {
	e.calls++
	if e.failOn != 0 && e.calls == e.failOn {
		return errors.New("redis down")
	}
	e.enqueued++
	return nil
}

// ─── Fixtures ────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *stubProductRepo, enq FootprintEnqueuer) CatalogService {
	return NewCatalogService(
		repo,
		nil, // no redis in unit tests
		sustain.NewCalculator(sustain.DefaultFactors()),
		sustain.NewEngine(sustain.DefaultScoreTables()),
		pricing.NewEngine().WithClock(func() time.Time { return testNow }),
		enq,
		nil,
	)
}

func tshirtDeclaration() sustain.ProductData {
	return sustain.ProductData{
		WeightKg: 0.2,
		Materials: []sustain.Material{
			{Type: "cotton", Variant: "organic", Percentage: 80},
			{Type: "polyester", Variant: "recycled", Percentage: 20},
		},
		Manufacturing: sustain.Manufacturing{EnergySource: "wind", EnergyKwh: 2.5},
		Transport: []sustain.TransportLeg{
			{Mode: "ship", DistanceKm: 8000},
			{Mode: "truck", DistanceKm: 500},
		},
		Packaging: sustain.Packaging{Type: "paper", WeightKg: 0.05, IsRecycled: true},
		Lifecycle: sustain.Lifecycle{
			ExpectedLifespanYears: 3,
			UsePhaseImpact:        6,
			DisposalMethod:        "recycling",
			RecyclabilityRate:     0.8,
		},
	}
}

func createTShirt(t *testing.T, svc CatalogService) *dto.ProductResponse {
	t.Helper()
	data := tshirtDeclaration()
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:            "ECO-TSHIRT-001",
		Name:           "Organic Cotton T-Shirt",
		Category:       "clothing",
		Price:          decimal.NewFromInt(899),
		Stock:          120,
		WeightKg:       0.2,
		Sustainability: &data,
	})
	require.NoError(t, err)
	return resp
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestCreateComputesDerivedColumns(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})

	resp := createTShirt(t, svc)

	require.NotNil(t, resp.CarbonKg)
	assert.InDelta(t, 2.5365, *resp.CarbonKg, 1e-9)
	require.NotNil(t, resp.EcoScore)
	assert.Equal(t, 86, *resp.EcoScore)
	require.NotNil(t, resp.EcoGrade)
	assert.Equal(t, "A", *resp.EcoGrade)

	// Persisted row carries the same cache.
	stored := repo.products[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored.FootprintBreakdown)
	assert.InDelta(t, 2.0, stored.FootprintBreakdown.UsePhase, 1e-9)
	assert.NotNil(t, stored.FootprintUpdatedAt)
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})
	createTShirt(t, svc)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:      "ECO-TSHIRT-001",
		Name:     "Duplicate",
		Category: "clothing",
		Price:    decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKU")
}

func TestCreateWithoutDeclarationUsesFallbackScore(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:       "ECO-GRANOLA-001",
		Name:      "Stone-Milled Granola",
		Category:  "food",
		Price:     decimal.NewFromInt(349),
		Stock:     10,
		Materials: []string{"organic oats"},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.CarbonKg)
	require.NotNil(t, resp.EcoScore)
	// Fallback: materials 75, carbon/others neutral 50 → 75*.25 + 50*.75 = 56
	assert.Equal(t, 56, *resp.EcoScore)
}

func TestPricingStacksExpiryAndStock(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})

	expiry := testNow.Add(48 * time.Hour)
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:            "ECO-GRANOLA-002",
		Name:           "Expiring Granola",
		Category:       "food",
		Price:          decimal.NewFromInt(1000),
		Stock:          3,
		ExpirationDate: &expiry,
	})
	require.NoError(t, err)

	p, err := svc.Pricing(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, []string{"Critical Expiry", "Low Stock Clearance"}, p.AppliedRules)
	assert.True(t, p.DiscountedPrice.Equal(decimal.NewFromInt(425)), "got %s", p.DiscountedPrice)
	assert.Equal(t, "critical", p.UrgencyLevel)
	assert.Equal(t, "Expires soon!", p.UrgencyMessage)
	assert.Nil(t, p.DemandLevel)
}

func TestInsightBuildsFullCard(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})
	resp := createTShirt(t, svc)

	insight, err := svc.Insight(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, 86, insight.EcoScore)
	assert.InDelta(t, 8.6, insight.EcoScore10, 1e-9)
	assert.Equal(t, "A", insight.Grade)
	assert.InDelta(t, 2.5365, insight.CarbonFootprintKg, 1e-9)
	assert.Equal(t, "Low", insight.FootprintLabel)
	// clothing thresholds: ≤2 kg = 5 stars, ≤5 kg = 4 stars
	assert.Equal(t, 4, insight.Stars)
	assert.Equal(t, "Very Good", insight.StarLabel)
	assert.Equal(t, 100, insight.ScoreBreakdown.Carbon)
	assert.Equal(t, 82, insight.ScoreBreakdown.Materials)
	assert.Contains(t, insight.MaterialDetail, "cotton (organic)")
}

func TestRecommendationsExcludeSelfAndPreferGreener(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})
	current := createTShirt(t, svc)

	mk := func(sku, name string, score int) {
		p := &model.Product{
			SKU:      sku,
			Name:     name,
			Category: "clothing",
			Price:    decimal.NewFromInt(899),
			EcoScore: &score,
			Active:   true,
		}
		require.NoError(t, repo.Create(context.Background(), p))
	}
	mk("ALT-1", "Hemp Tee", 92)
	mk("ALT-2", "Poly Tee", 30)

	recs, err := svc.Recommendations(context.Background(), uuid.MustParse(current.ID), 4)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	for _, r := range recs {
		assert.NotEqual(t, current.ID, r.ID)
	}
	assert.Equal(t, "Hemp Tee", recs[0].Name)
	assert.GreaterOrEqual(t, recs[0].Similarity, recs[1].Similarity)
}

func TestUpdateLifecycleRefreshesCache(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})
	resp := createTShirt(t, svc)
	before := *resp.CarbonKg

	heavier := tshirtDeclaration()
	heavier.WeightKg = 0.4
	for i := range heavier.Materials {
		heavier.Materials[i].WeightKg = 0
	}
	updated, err := svc.Update(context.Background(), uuid.MustParse(resp.ID), dto.UpdateProductRequest{
		Sustainability: &heavier,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CarbonKg)
	assert.Greater(t, *updated.CarbonKg, before)
}

func TestRecomputeFootprintsDispatchesPerProduct(t *testing.T) {
	repo := newStubProductRepo()
	enq := &stubEnqueuer{failOn: 2}
	svc := newTestService(repo, enq)

	createTShirt(t, svc)
	score := 40
	require.NoError(t, repo.Create(context.Background(), &model.Product{
		SKU: "A", Name: "A", Category: "food", Price: decimal.NewFromInt(10),
		EcoScore: &score, Active: true,
	}))
	require.NoError(t, repo.Create(context.Background(), &model.Product{
		SKU: "B", Name: "B", Category: "food", Price: decimal.NewFromInt(10),
		EcoScore: &score, Active: true,
	}))

	count, err := svc.RecomputeFootprints(context.Background())
	require.NoError(t, err)
	// one enqueue fails, the others still go out
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, enq.calls)
}

func TestDeactivateHidesFromList(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(repo, &stubEnqueuer{})
	resp := createTShirt(t, svc)

	require.NoError(t, svc.Deactivate(context.Background(), uuid.MustParse(resp.ID)))

	list, err := svc.List(context.Background(), dto.ProductFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestLoyaltyPreviewCrossesLevel(t *testing.T) {
	resp := PreviewLoyalty(dto.LoyaltyPreviewRequest{
		OrderTotal:    decimal.NewFromInt(1250),
		EcoScore:      70,
		CurrentPoints: 90,
	})

	assert.Equal(t, 24, resp.PointsEarned)
	assert.Equal(t, 114, resp.NewTotal)
	assert.Equal(t, "Green Guardian", resp.Level.Title)
	require.NotNil(t, resp.NextLevel)
	assert.Equal(t, "Sustainability Champion", resp.NextLevel.Title)
	assert.Equal(t, 186, resp.PointsToNext)
}
