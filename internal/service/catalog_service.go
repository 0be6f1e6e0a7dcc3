package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"ecostore/internal/dto"
	"ecostore/internal/model"
	"ecostore/internal/pricing"
	"ecostore/internal/recommend"
	"ecostore/internal/repository"
	"ecostore/internal/sustain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// insightCacheTTL bounds staleness of the cached sustainability card.
const insightCacheTTL = 10 * time.Minute

// FootprintEnqueuer pushes async footprint-recompute jobs. Implemented by
// worker.Dispatcher; stubbed in tests.
type FootprintEnqueuer interface {
	EnqueueFootprint(ctx context.Context, payload interface{}) error
}

// DemandForecaster asks the external forecast service for a demand level
// ("low" | "steady" | "high"). May be nil when the sidecar is not configured.
type DemandForecaster interface {
	Demand(ctx context.Context, productID, category string) (string, error)
}

// CatalogService is the business logic for the sustainability storefront:
// product CRUD plus the derived footprint, eco-score, pricing and
// recommendation views.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)

	Pricing(ctx context.Context, id uuid.UUID) (*dto.PricingResponse, error)
	Insight(ctx context.Context, id uuid.UUID) (*dto.InsightResponse, error)
	Recommendations(ctx context.Context, id uuid.UUID, limit int) ([]dto.RecommendationResponse, error)
	RecomputeFootprints(ctx context.Context) (int, error)
}

type catalogService struct {
	repo       repository.ProductRepository
	rdb        *redis.Client
	calc       *sustain.Calculator
	scorer     *sustain.Engine
	pricer     *pricing.Engine
	dispatcher FootprintEnqueuer
	forecast   DemandForecaster
}

func NewCatalogService(
	repo repository.ProductRepository,
	rdb *redis.Client,
	calc *sustain.Calculator,
	scorer *sustain.Engine,
	pricer *pricing.Engine,
	dispatcher FootprintEnqueuer,
	forecast DemandForecaster,
) CatalogService {
	return &catalogService{
		repo:       repo,
		rdb:        rdb,
		calc:       calc,
		scorer:     scorer,
		pricer:     pricer,
		dispatcher: dispatcher,
		forecast:   forecast,
	}
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := s.repo.FindBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("a product with this SKU already exists")
	}

	p := &model.Product{
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Brand:          req.Brand,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		Stock:          req.Stock,
		ExpirationDate: req.ExpirationDate,
		WeightKg:       req.WeightKg,
		Materials:      model.StringList(req.Materials),
		Active:         true,
	}
	if req.Sustainability != nil {
		p.Sustainability = &model.SustainabilityData{ProductData: *req.Sustainability}
	}

	s.refreshDerived(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.mapProduct(ctx, p, true), nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapProduct(ctx, p, true), nil
}

func (s *catalogService) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return s.mapProduct(ctx, p, true), nil
}

func (s *catalogService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp := s.mapProduct(ctx, &products[i], true)
		if filter.OnSaleOnly && (resp.Pricing == nil || !resp.Pricing.IsOnSale) {
			continue
		}
		data = append(data, *resp)
	}

	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Brand != nil {
		p.Brand = req.Brand
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ExpirationDate != nil {
		p.ExpirationDate = req.ExpirationDate
	}

	lifecycleChanged := false
	if req.WeightKg != nil {
		p.WeightKg = *req.WeightKg
		lifecycleChanged = true
	}
	if req.Materials != nil {
		p.Materials = model.StringList(req.Materials)
		lifecycleChanged = true
	}
	if req.Sustainability != nil {
		p.Sustainability = &model.SustainabilityData{ProductData: *req.Sustainability}
		lifecycleChanged = true
	}

	if lifecycleChanged {
		s.refreshDerived(p)
		s.invalidateInsight(ctx, p.ID)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.mapProduct(ctx, p, true), nil
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *catalogService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if err := s.repo.AdjustStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("product_id", id.String()).
		Int("delta", req.Delta).
		Str("reason", req.Reason).
		Int("stock", p.Stock).
		Msg("stock adjusted")
	return s.mapProduct(ctx, p, true), nil
}

// ─── Derived views ───────────────────────────────────────────────────────────

func (s *catalogService) Pricing(ctx context.Context, id uuid.UUID) (*dto.PricingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.computePricing(ctx, p)
	return resp, nil
}

func (s *catalogService) computePricing(ctx context.Context, p *model.Product) *dto.PricingResponse {
	res := s.pricer.Compute(pricing.Input{
		Price:          p.Price,
		Stock:          p.Stock,
		ExpirationDate: p.ExpirationDate,
	})

	resp := &dto.PricingResponse{
		OriginalPrice:      res.OriginalPrice,
		DiscountedPrice:    res.DiscountedPrice,
		DiscountPercentage: res.DiscountPercentage,
		DiscountAmount:     res.DiscountAmount,
		AppliedRules:       res.AppliedRules,
		IsOnSale:           res.IsOnSale,
		UrgencyLevel:       string(res.UrgencyLevel),
		UrgencyMessage:     pricing.UrgencyMessage(res.DaysUntilExpiry),
		BadgeColor:         pricing.BadgeColor(res.UrgencyLevel),
		DaysUntilExpiry:    res.DaysUntilExpiry,
	}

	// Demand signal is advisory; a forecast outage never blocks pricing.
	if s.forecast != nil {
		level, err := s.forecast.Demand(ctx, p.ID.String(), p.Category)
		if err != nil {
			log.Debug().Err(err).Str("product_id", p.ID.String()).Msg("forecast unavailable")
		} else if level != "" {
			resp.DemandLevel = &level
		}
	}
	return resp
}

func (s *catalogService) Insight(ctx context.Context, id uuid.UUID) (*dto.InsightResponse, error) {
	cacheKey := "insight:" + id.String()
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached dto.InsightResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		fpRes sustain.FootprintResult
		data  = p.SustainData()
	)
	if data != nil {
		fpRes = s.calc.Compute(*data)
	}

	score := s.scorer.Score(sustain.ScoreInput{
		Name:              p.Name,
		CarbonFootprintKg: fpRes.Total,
		Data:              data,
		MaterialNames:     p.Materials,
	})
	rating := sustain.Rating(score.Total)
	fpInfo := sustain.FootprintDescription(fpRes.Total)
	stars, starLabel := sustain.StarRating(fpRes.Total, p.Category)

	resp := &dto.InsightResponse{
		ProductID:         p.ID.String(),
		Name:              p.Name,
		CarbonFootprintKg: fpRes.Total,
		Breakdown:         fpRes.Breakdown,
		FootprintLabel:    fpInfo.Label,
		FootprintText:     fpInfo.Description,
		CarbonEquivalent:  fpInfo.Equivalent,
		MaterialDetail:    fpRes.MaterialDetail,
		TransportDetail:   fpRes.TransportDetail,
		EcoScore:          score.Total,
		EcoScore10:        score.Scale10(),
		Grade:             rating.Grade,
		GradeColor:        rating.Color,
		GradeText:         rating.Description,
		GradeEquivalent:   rating.Equivalent,
		ScoreBreakdown: dto.EcoScoreBreakdown{
			Carbon:        score.CarbonScore,
			Materials:     score.MaterialSustainability,
			Manufacturing: score.ManufacturingEnergy,
			Transport:     score.PackagingTransport,
			EndOfLife:     score.EndOfLife,
		},
		Stars:     stars,
		StarLabel: starLabel,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, insightCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("key", cacheKey).Msg("insight cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *catalogService) Recommendations(ctx context.Context, id uuid.UUID, limit int) ([]dto.RecommendationResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates, _, err := s.repo.List(ctx, dto.ProductFilter{Page: 1, Limit: 100})
	if err != nil {
		return nil, err
	}

	current := toRecommendItem(p, s.scorer)
	items := make([]recommend.Item, 0, len(candidates))
	byID := make(map[string]*model.Product, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		items = append(items, toRecommendItem(c, s.scorer))
		byID[c.ID.String()] = c
	}

	ranked := recommend.Rank(current, items, limit)
	out := make([]dto.RecommendationResponse, 0, len(ranked))
	for _, item := range ranked {
		src, ok := byID[item.ID]
		if !ok {
			continue
		}
		out = append(out, dto.RecommendationResponse{
			ID:         item.ID,
			Name:       src.Name,
			Category:   src.Category,
			Price:      src.Price,
			ImageURL:   src.ImageURL,
			EcoScore:   item.EcoScore,
			Similarity: recommend.Similarity(current, item),
		})
	}
	return out, nil
}

// RecomputeFootprints enqueues one async job per active product. Used after a
// factor-table revision so cached columns converge to the new figures.
func (s *catalogService) RecomputeFootprints(ctx context.Context) (int, error) {
	ids, err := s.repo.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	enqueued := 0
	for _, id := range ids {
		payload := map[string]string{"product_id": id.String()}
		if err := s.dispatcher.EnqueueFootprint(ctx, payload); err != nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("failed to enqueue recompute")
			continue
		}
		enqueued++
	}
	log.Info().Int("enqueued", enqueued).Msg("footprint recompute dispatched")
	return enqueued, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// refreshDerived recomputes the cached footprint and eco-score columns from
// the current lifecycle declaration.
func (s *catalogService) refreshDerived(p *model.Product) {
	now := time.Now().UTC()
	data := p.SustainData()

	var footprint float64
	if data != nil {
		res := s.calc.Compute(*data)
		footprint = res.Total
		p.CarbonFootprintKg = &footprint
		p.FootprintBreakdown = &model.FootprintBreakdownData{FootprintBreakdown: res.Breakdown}
	} else {
		p.CarbonFootprintKg = nil
		p.FootprintBreakdown = nil
	}

	score := s.scorer.Score(sustain.ScoreInput{
		Name:              p.Name,
		CarbonFootprintKg: footprint,
		Data:              data,
		MaterialNames:     p.Materials,
	})
	total := score.Total
	p.EcoScore = &total
	p.FootprintUpdatedAt = &now
}

func (s *catalogService) invalidateInsight(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "insight:"+id.String()).Err(); err != nil {
		log.Debug().Err(err).Str("product_id", id.String()).Msg("insight cache invalidation failed")
	}
}

func (s *catalogService) mapProduct(ctx context.Context, p *model.Product, withPricing bool) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:             p.ID.String(),
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Brand:          p.Brand,
		ImageURL:       p.ImageURL,
		Price:          p.Price,
		Stock:          p.Stock,
		ExpirationDate: p.ExpirationDate,
		Materials:      p.Materials,
		CarbonKg:       p.CarbonFootprintKg,
		EcoScore:       p.EcoScore,
		Active:         p.Active,
	}
	if p.EcoScore != nil {
		grade := sustain.Rating(*p.EcoScore).Grade
		resp.EcoGrade = &grade
	}
	if withPricing {
		resp.Pricing = s.computePricing(ctx, p)
	}
	return resp
}

// toRecommendItem projects a product into the ranker's input, computing the
// eco-score on the fly when the cached column has not been filled yet.
func toRecommendItem(p *model.Product, scorer *sustain.Engine) recommend.Item {
	score := 0
	if p.EcoScore != nil {
		score = *p.EcoScore
	} else {
		score = scorer.Score(sustain.ScoreInput{
			Name:          p.Name,
			Data:          p.SustainData(),
			MaterialNames: p.Materials,
		}).Total
	}

	materials := []string(p.Materials)
	if data := p.SustainData(); data != nil && len(data.Materials) > 0 {
		materials = make([]string, 0, len(data.Materials))
		for _, m := range data.Materials {
			materials = append(materials, m.Type)
		}
	}

	return recommend.Item{
		ID:        p.ID.String(),
		Category:  p.Category,
		Price:     p.Price.InexactFloat64(),
		Materials: materials,
		EcoScore:  score,
	}
}
