package health

import (
	"net/http"
	"runtime"
	"time"

	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerState 回報參考資料庫斷路器狀態
type BreakerState interface {
	State() gobreaker.State
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Reference *ReferenceStatus       `json:"reference,omitempty"`
}

// ReferenceStatus 參考資料庫狀態
type ReferenceStatus struct {
	Breaker       string `json:"breaker"`
	KeyConfigured bool   `json:"key_configured"`
}

// Handler 健康檢查處理器
type Handler struct {
	breaker BreakerState
}

// NewHandler 創建健康檢查處理器，breaker 可為 nil
func NewHandler(breaker BreakerState) *Handler {
	return &Handler{breaker: breaker}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Reference: &ReferenceStatus{
			Breaker:       h.breakerState(),
			KeyConfigured: cfg.Reference.APIKey != "",
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：參考資料庫需有憑證且斷路器未開啟
func (h *Handler) ReadinessCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		return
	}

	var reasons []string
	if cfg.Reference.APIKey == "" {
		reasons = append(reasons, "reference api key missing")
	}
	if h.breakerState() == gobreaker.StateOpen.String() {
		reasons = append(reasons, "reference breaker open")
	}

	if len(reasons) > 0 {
		common.LogWarn("Readiness check failed", zap.Strings("reasons", reasons))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"reasons": reasons,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (h *Handler) breakerState() string {
	if h.breaker == nil {
		return "none"
	}
	return h.breaker.State().String()
}

func configFrom(c *gin.Context) (*config.Config, bool) {
	raw, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Configuration not found",
		})
		return nil, false
	}
	cfg, ok := raw.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Invalid configuration type",
		})
		return nil, false
	}
	return cfg, true
}
