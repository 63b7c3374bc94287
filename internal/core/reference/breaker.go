package reference

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fridgewise/internal/core/ingredient"
	"fridgewise/internal/pkg/common"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker 以斷路器保護參考資料庫查詢
type Breaker struct {
	next    ingredient.Searcher
	breaker *gobreaker.CircuitBreaker

	mu      sync.Mutex
	lastErr error // 最近一次下游失敗，斷路期間用來保留認證錯誤的身分
}

// NewBreaker 連續失敗 maxFailures 次後斷路，timeout 後進入半開狀態
func NewBreaker(next ingredient.Searcher, timeout time.Duration, maxFailures uint32) *Breaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "fdc-search",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("斷路器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Breaker{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Search 斷路時回傳 ErrSearchFailure；若因認證失敗而斷路則回傳 ErrAuthFailure
func (b *Breaker) Search(ctx context.Context, query string, pageSize int) ([]common.ReferenceFood, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		foods, err := b.next.Search(ctx, query, pageSize)
		b.record(err)
		if err != nil {
			return nil, err
		}
		return foods, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			base := common.ErrSearchFailure
			if errors.Is(b.last(), common.ErrAuthFailure) {
				base = common.ErrAuthFailure
			}
			return nil, common.Wrap(base, fmt.Errorf("breaker (%s): %w", b.breaker.Name(), err))
		}
		return nil, err
	}

	foods, _ := res.([]common.ReferenceFood)
	return foods, nil
}

func (b *Breaker) record(err error) {
	if err != nil && errors.Is(err, context.Canceled) {
		return
	}
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
}

func (b *Breaker) last() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// State 目前斷路器狀態
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}
