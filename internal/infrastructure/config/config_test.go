package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Pipeline.MaxResults)
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 200*time.Millisecond, cfg.Pipeline.BatchDelay)
	assert.Equal(t, 20, cfg.Reference.PageSize)
	assert.Equal(t, "https://api.nal.usda.gov/fdc/v1", cfg.Reference.BaseURL)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_RESULTS", "7")
	t.Setenv("BATCH_SIZE", "3")
	t.Setenv("BATCH_DELAY", "1s")
	t.Setenv("FDC_API_KEY", "fdc-secret-key")
	t.Setenv("OPENROUTER_API_KEY", "or-secret-key")
	t.Setenv("APP_REFERENCE_PAGE_SIZE", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Pipeline.MaxResults)
	assert.Equal(t, 3, cfg.Pipeline.BatchSize)
	assert.Equal(t, time.Second, cfg.Pipeline.BatchDelay)
	assert.Equal(t, "fdc-secret-key", cfg.Reference.APIKey)
	assert.Equal(t, "or-secret-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, 25, cfg.Reference.PageSize)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero max results", map[string]string{"MAX_RESULTS": "0"}},
		{"zero batch size", map[string]string{"BATCH_SIZE": "0"}},
		{"unknown cache backend", map[string]string{"CACHE_BACKEND": "memcached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
