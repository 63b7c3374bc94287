package api

import (
	"fmt"
	"time"

	"fridgewise/internal/api/handlers/health"
	ingredientHandler "fridgewise/internal/api/handlers/ingredient"
	"fridgewise/internal/api/middleware"
	"fridgewise/internal/infrastructure/bootstrap"
	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, app *bootstrap.App) (*gin.Engine, error) {
	if cfg == nil || app == nil || app.Ingredient == nil || app.Images == nil {
		return nil, fmt.Errorf("router requires config and initialized services")
	}

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
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		router.Use(middleware.Deduplication(cfg.DedupWindow))
	}
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	// 注入設定
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(app.Breaker)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// API 路由組
	api := router.Group("/api/v1")
	{
		h := ingredientHandler.NewHandler(app.Ingredient, app.Images)

		ingredientGroup := api.Group("/ingredients")
		{
			// 圖片辨識後解析
			ingredientGroup.POST("/analyze", h.HandleAnalyzeImage)

			// 直接解析標籤
			ingredientGroup.POST("/labels", h.HandleAnalyzeLabels)

			// 參考資料庫搜尋
			ingredientGroup.GET("/search", h.HandleSearch)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
