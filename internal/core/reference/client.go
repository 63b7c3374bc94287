package reference

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client USDA FoodData Central 查詢客戶端
type Client struct {
	client    *resty.Client
	apiKey    string
	dataTypes []string
}

// searchRequest /foods/search 請求
type searchRequest struct {
	Query    string   `json:"query"`
	PageSize int      `json:"pageSize"`
	DataType []string `json:"dataType,omitempty"`
}

// searchResponse /foods/search 回應中用到的欄位
type searchResponse struct {
	TotalHits int `json:"totalHits"`
	Foods     []struct {
		FdcID        int64   `json:"fdcId"`
		Description  string  `json:"description"`
		DataType     string  `json:"dataType"`
		FoodCategory string  `json:"foodCategory"`
		Score        float64 `json:"score"`
	} `json:"foods"`
}

// NewClient 創建參考資料庫客戶端
func NewClient(cfg config.ReferenceConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		client:    client,
		apiKey:    cfg.APIKey,
		dataTypes: cfg.DataTypes,
	}
}

// Search 以文字查詢候選食物
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]common.ReferenceFood, error) {
	start := time.Now()
	foods, status, err := c.search(ctx, query, pageSize)
	elapsed := time.Since(start)

	metrics.SearchLatency.WithLabelValues(status).Observe(float64(elapsed.Milliseconds()))
	common.LogSearchCall(query, len(foods), elapsed, err)
	return foods, err
}

func (c *Client) search(ctx context.Context, query string, pageSize int) ([]common.ReferenceFood, string, error) {
	var result searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetBody(searchRequest{
			Query:    query,
			PageSize: pageSize,
			DataType: c.dataTypes,
		}).
		SetResult(&result).
		Post("/foods/search")
	if err != nil {
		return nil, "error", common.Wrap(common.ErrSearchFailure, fmt.Errorf("failed to send request: %w", err))
	}

	status := strconv.Itoa(resp.StatusCode())
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, status, common.Wrap(common.ErrAuthFailure, fmt.Errorf("FoodData Central returned %d", code))
	case code < 200 || code >= 300:
		return nil, status, common.Wrap(common.ErrSearchFailure, fmt.Errorf("FoodData Central returned %d: %s", code, truncate(resp.String(), 200)))
	}

	foods := make([]common.ReferenceFood, 0, len(result.Foods))
	for _, f := range result.Foods {
		food := common.ReferenceFood{
			ID:           strconv.FormatInt(f.FdcID, 10),
			Description:  f.Description,
			CategoryHint: f.FoodCategory,
		}
		if f.Score > 0 {
			score := f.Score
			food.RelevanceScore = &score
		}
		foods = append(foods, food)
	}
	return foods, status, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
