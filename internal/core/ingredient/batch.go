package ingredient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOrchestrator 以固定大小批次並行比對標籤，批次之間暫停以配合外部限流
type BatchOrchestrator struct {
	expander  *RetryExpander
	scorer    *Scorer
	batchSize int
	delay     time.Duration
}

// NewBatchOrchestrator 創建批次協調器
func NewBatchOrchestrator(expander *RetryExpander, scorer *Scorer, batchSize int, delay time.Duration) *BatchOrchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchOrchestrator{
		expander:  expander,
		scorer:    scorer,
		batchSize: batchSize,
		delay:     delay,
	}
}

// Run 比對所有標籤並回傳成功結果（尚未去重）
// 單一標籤失敗只記錄日誌，不影響其他標籤
func (o *BatchOrchestrator) Run(ctx context.Context, labels []string) []common.ProcessedIngredient {
	pending := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok || label == "" {
			continue
		}
		seen[label] = struct{}{}
		pending = append(pending, label)
	}

	var results []common.ProcessedIngredient
	for start := 0; start < len(pending); start += o.batchSize {
		if start > 0 && !o.pause(ctx) {
			common.LogWarn("批次處理中止", zap.Int("已處理", start), zap.Error(ctx.Err()))
			break
		}

		end := start + o.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		outcomes := o.runBatch(ctx, pending[start:end])
		matched := 0
		for _, out := range outcomes {
			if ing, ok := o.collect(out); ok {
				results = append(results, ing)
				matched++
			}
		}

		common.LogDebug("批次完成",
			zap.Int("batch_start", start),
			zap.Int("labels", end-start),
			zap.Int("matched", matched),
		)
	}
	return results
}

// runBatch 每個 worker 只寫入自己的槽位，Wait 之後才合併
func (o *BatchOrchestrator) runBatch(ctx context.Context, batch []string) []Outcome {
	outcomes := make([]Outcome, len(batch))

	var g errgroup.Group
	g.SetLimit(o.batchSize)
	for i, label := range batch {
		i, label := i, label
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Outcome{Label: label, Query: label, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			outcomes[i] = o.expander.Resolve(ctx, label)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// collect 記錄結果並轉成輸出項
func (o *BatchOrchestrator) collect(out Outcome) (common.ProcessedIngredient, bool) {
	if out.Retried {
		metrics.ObserveLabel(metrics.OutcomeRetried)
	}

	switch {
	case out.Err != nil:
		metrics.ObserveLabel(metrics.OutcomeFailed)
		if errors.Is(out.Err, common.ErrAuthFailure) {
			common.LogError("參考資料庫認證失敗，請檢查 FDC_API_KEY",
				zap.String("label", out.Label),
				zap.Error(out.Err),
			)
		} else {
			common.LogWarn("標籤查詢失敗",
				zap.String("label", out.Label),
				zap.String("query", out.Query),
				zap.Error(out.Err),
			)
		}
		return common.ProcessedIngredient{}, false
	case !out.Matched:
		metrics.ObserveLabel(metrics.OutcomeNoMatch)
		common.LogDebug("標籤無符合項目", zap.String("label", out.Label), zap.Bool("retried", out.Retried))
		return common.ProcessedIngredient{}, false
	}

	metrics.ObserveLabel(metrics.OutcomeMatched)
	return toIngredient(out.Match, o.scorer.Confidence(out.Match, out.Candidates)), true
}

// pause 批次間的節流等待，context 取消時回傳 false
func (o *BatchOrchestrator) pause(ctx context.Context) bool {
	if o.delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(o.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func toIngredient(m Match, confidence float64) common.ProcessedIngredient {
	return common.ProcessedIngredient{
		Name:        CanonicalName(m.Food.Description),
		Category:    Categorize(m.Food.Description, m.Food.CategoryHint),
		Confidence:  confidence,
		Source:      common.SourceMatched,
		ReferenceID: m.Food.ID,
	}
}
