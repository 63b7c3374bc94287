package reference

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"fridgewise/internal/core/cache"
	"fridgewise/internal/core/ingredient"
	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedSearcher 以快取包裝查詢，只快取成功結果
type CachedSearcher struct {
	next  ingredient.Searcher
	store cache.Store
}

// NewCachedSearcher store 為 nil 時直接回傳 next
func NewCachedSearcher(next ingredient.Searcher, store cache.Store) ingredient.Searcher {
	if store == nil {
		return next
	}
	return &CachedSearcher{next: next, store: store}
}

// Search 先查快取，未命中再查詢並寫回
func (c *CachedSearcher) Search(ctx context.Context, query string, pageSize int) ([]common.ReferenceFood, error) {
	key := cache.Key("fdc:search", strings.ToLower(strings.TrimSpace(query)), strconv.Itoa(pageSize))

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var foods []common.ReferenceFood
		if err := common.ParseJSONBytes(data, &foods); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return foods, nil
		}
		common.LogWarn("快取內容無法解析", zap.String("鍵", key))
	case !errors.Is(err, common.ErrCacheMiss):
		common.LogWarn("快取讀取失敗", zap.String("鍵", key), zap.Error(err))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	foods, err := c.next.Search(ctx, query, pageSize)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(foods); err == nil {
		if err := c.store.Set(ctx, key, encoded); err != nil {
			common.LogWarn("快取寫入失敗", zap.String("鍵", key), zap.Error(err))
		}
	}
	return foods, nil
}
