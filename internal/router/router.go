package router

import (
	"time"

	"ecostore/internal/config"
	"ecostore/internal/handler"
	"ecostore/internal/infra"
	"ecostore/internal/middleware"
	"ecostore/internal/pricing"
	"ecostore/internal/repository"
	"ecostore/internal/service"
	"ecostore/internal/sustain"
	"ecostore/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, forecastCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	forecastClient := infra.NewForecastClient(cfg.ForecastServiceURL, forecastCB)

	// ── Engines ──────────────────────────────────────────────────────────────
	calc := sustain.NewCalculator(sustain.DefaultFactors())
	scorer := sustain.NewEngine(sustain.DefaultScoreTables())
	if cfg.Env != "production" {
		scorer = scorer.WithTracer(sustain.ZerologTracer{Logger: log.Logger})
	}
	pricer := pricing.NewEngine()

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(productRepo, rdb, calc, scorer, pricer, dispatcher, forecastClient)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(catalogSvc)
	insightsH := handler.NewInsightsHandler(catalogSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, forecastCB))

	// Public storefront — no auth required
	v1 := r.Group("/v1")
	{
		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.GetByID)
		v1.GET("/products/sku/:sku", productsH.GetBySKU)
		v1.GET("/products/:id/pricing", productsH.Pricing)
		v1.GET("/products/:id/insights", insightsH.Get)
		v1.GET("/products/:id/recommendations", productsH.Recommendations)
		v1.GET("/categories", categoriesH.List)
		v1.POST("/loyalty/preview", handler.LoyaltyPreview)
	}

	// Catalog management — tokens come from the hosted auth service
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := r.Group("/v1", jwtMW)
	{
		products := admin.Group("/products", middleware.RequireRole("admin", "merchandiser"))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
			products.PATCH("/:id/stock", productsH.AdjustStock)
			products.POST("/recompute-footprints", productsH.RecomputeFootprints)
		}

		categories := admin.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}
	}

	return r
}
