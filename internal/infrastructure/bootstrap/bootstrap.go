package bootstrap

import (
	"fmt"

	"fridgewise/internal/core/cache"
	"fridgewise/internal/core/image"
	"fridgewise/internal/core/ingredient"
	"fridgewise/internal/core/reference"
	"fridgewise/internal/core/vision"
	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/pkg/common"

	"go.uber.org/zap"
)

// App 組裝完成的服務
type App struct {
	Config     *config.Config
	Images     *image.Service
	Ingredient *ingredient.Service
	Breaker    *reference.Breaker
	Cache      cache.Store
}

// New 依設定組裝食材解析服務
func New(cfg *config.Config) (*App, error) {
	if cfg.Reference.APIKey == "" {
		common.LogWarn("未設定 FDC_API_KEY，參考資料庫查詢將會失敗")
	}
	if cfg.OpenRouter.APIKey == "" {
		common.LogWarn("未設定 OPENROUTER_API_KEY，影像辨識將無法使用")
	}

	store, err := cache.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	breaker := reference.NewBreaker(reference.NewClient(cfg.Reference), cfg.Reference.BreakerTimeout, cfg.Reference.BreakerMaxFailures)
	searcher := reference.NewCachedSearcher(breaker, store)

	images := image.NewService(cfg.Image.MaxSizeBytes)
	recognizer := vision.NewClient(cfg.OpenRouter)

	svc := ingredient.NewService(recognizer, searcher, ingredient.Options{
		MaxResults:  cfg.Pipeline.MaxResults,
		BatchSize:   cfg.Pipeline.BatchSize,
		BatchDelay:  cfg.Pipeline.BatchDelay,
		PageSize:    cfg.Reference.PageSize,
		SearchLimit: cfg.Pipeline.SearchLimit,
		Denylist:    cfg.Pipeline.Denylist,
	})

	common.LogInfo("食材服務已初始化",
		zap.String("reference", cfg.Reference.BaseURL),
		zap.String("fdc_key", config.MaskAPIKey(cfg.Reference.APIKey)),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Bool("cache", store != nil),
		zap.Int("max_results", cfg.Pipeline.MaxResults),
		zap.Int("batch_size", cfg.Pipeline.BatchSize),
	)

	return &App{
		Config:     cfg,
		Images:     images,
		Ingredient: svc,
		Breaker:    breaker,
		Cache:      store,
	}, nil
}

// Close 釋放資源
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}
