package api

import (
	"time"

	"pantry-finder/internal/api/handlers/health"
	recipeHandler "pantry-finder/internal/api/handlers/recipe"
	shoppingHandler "pantry-finder/internal/api/handlers/shopping"
	"pantry-finder/internal/api/middleware"
	"pantry-finder/internal/core/cache"
	"pantry-finder/internal/core/mealdb"
	recipeService "pantry-finder/internal/core/recipe"
	shoppingService "pantry-finder/internal/core/shopping"
	"pantry-finder/internal/infrastructure/config"
	"pantry-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由。
// store 為 TheMealDB 回應緩存（停用時為 nil），lists 為購物清單存放區。
func SetupRouter(cfg *config.Config, store cache.Store, lists cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("mealdb_base_url", cfg.MealDB.BaseURL),
		zap.Int("max_candidates", cfg.Search.MaxCandidates),
		zap.Int("lookup_concurrency", cfg.Search.LookupConcurrency),
		zap.Bool("skip_failed_terms", cfg.Search.SkipFailedTerms),
	)

	// 初始化服務
	client := mealdb.NewClient(cfg.MealDB, store)
	searchSvc := recipeService.NewSearchService(client, client, recipeService.SearchOptions{
		MaxCandidates:     cfg.Search.MaxCandidates,
		LookupConcurrency: cfg.Search.LookupConcurrency,
		SkipFailedTerms:   cfg.Search.SkipFailedTerms,
	})
	shoppingSvc := shoppingService.NewService(lists)

	// 注入配置與緩存，供健康檢查使用
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		if store != nil {
			c.Set("cache_store", store)
		}
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(searchSvc, cfg.App.Debug)
		api.GET("/filters", recipes.HandleFilterOptions)

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/search", recipes.HandleSearch)
			searchJSON := []gin.HandlerFunc{recipes.HandleSearchJSON}
			if cfg.DedupWindow > 0 {
				// 只對搜尋去重，購物清單的勾選可在短時間內重複切換
				searchJSON = append([]gin.HandlerFunc{middleware.Deduplication(cfg.DedupWindow)}, searchJSON...)
			}
			recipeGroup.POST("/search", searchJSON...)
			recipeGroup.POST("/filter", recipes.HandleFilter)
			recipeGroup.GET("/:id", recipes.HandleRecipe)
		}

		shopping := shoppingHandler.NewHandler(shoppingSvc, cfg.App.Debug)
		shoppingGroup := api.Group("/shopping")
		{
			shoppingGroup.POST("", shopping.HandleCreate)
			shoppingGroup.GET("/:id", shopping.HandleGet)
			shoppingGroup.GET("/:id/export", shopping.HandleExport)
			shoppingGroup.POST("/:id/items", shopping.HandleAddItems)
			shoppingGroup.POST("/:id/items/toggle", shopping.HandleToggle)
			shoppingGroup.DELETE("/:id/items", shopping.HandleClear)
			shoppingGroup.DELETE("/:id/items/:name", shopping.HandleRemove)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_enabled", store != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
