package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fridgewise/internal/infrastructure/bootstrap"
	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(fdcURL string) *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{Debug: true, Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Reference: config.ReferenceConfig{
			APIKey:             "fdc-key",
			BaseURL:            fdcURL,
			PageSize:           20,
			Timeout:            5 * time.Second,
			BreakerTimeout:     time.Minute,
			BreakerMaxFailures: 5,
		},
		OpenRouter: config.OpenRouterConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Pipeline:   config.PipelineConfig{MaxResults: 12, BatchSize: 5, SearchLimit: 10},
		Image:      config.ImageConfig{MaxSizeBytes: 1 << 20},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	return cfg
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fdc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{"fdcId":1750340,"description":"Apples, raw","foodCategory":"Fruits and Fruit Juices","score":500}]}`))
	}))
	t.Cleanup(fdc.Close)

	cfg := testConfig(fdc.URL)
	app, err := bootstrap.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	router, err := SetupRouter(cfg, app)
	require.NoError(t, err)
	return router
}

func TestSetupRouter_RequiresServices(t *testing.T) {
	_, err := SetupRouter(testConfig(""), nil)
	assert.Error(t, err)
}

func TestRouter_Labels(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingredients/labels", strings.NewReader(`{"labels":["apple","food"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp common.IngredientListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Apples", resp.Ingredients[0].Name)
	assert.Equal(t, common.CategoryFruits, resp.Ingredients[0].Category)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_SearchValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
