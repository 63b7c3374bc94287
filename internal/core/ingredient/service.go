package ingredient

import (
	"context"
	"strings"
	"time"

	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	DefaultMaxResults  = 12
	DefaultBatchSize   = 5
	DefaultBatchDelay  = 200 * time.Millisecond
	DefaultPageSize    = 20
	DefaultSearchLimit = 10
	MaxSearchLimit     = 25
)

// Searcher 參考食物資料庫查詢
type Searcher interface {
	Search(ctx context.Context, query string, pageSize int) ([]common.ReferenceFood, error)
}

// Recognizer 影像辨識，回傳自由文字標籤
type Recognizer interface {
	Recognize(ctx context.Context, imageData string) ([]string, error)
}

// Options 管線設定
type Options struct {
	MaxResults  int
	BatchSize   int
	BatchDelay  time.Duration
	PageSize    int
	SearchLimit int
	Denylist    []string
	Weights     *Weights
}

// Service 食材解析管線入口
type Service struct {
	recognizer   Recognizer
	searcher     Searcher
	filter       *LabelFilter
	scorer       *Scorer
	orchestrator *BatchOrchestrator
	opts         Options
}

// NewService 創建食材解析服務，recognizer 可為 nil（僅支援文字標籤）
func NewService(recognizer Recognizer, searcher Searcher, opts Options) *Service {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.BatchDelay < 0 {
		opts.BatchDelay = DefaultBatchDelay
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}

	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	scorer := NewScorer(weights)
	expander := NewRetryExpander(searcher, scorer, opts.PageSize)

	return &Service{
		recognizer:   recognizer,
		searcher:     searcher,
		filter:       NewLabelFilter(opts.Denylist...),
		scorer:       scorer,
		orchestrator: NewBatchOrchestrator(expander, scorer, opts.BatchSize, opts.BatchDelay),
		opts:         opts,
	}
}

// Analyze 將辨識標籤解析為去重排序後的食材，永不回傳 nil
func (s *Service) Analyze(ctx context.Context, tags []string) []common.ProcessedIngredient {
	start := time.Now()

	labels, rejected := s.filter.Apply(tags)
	for i := 0; i < rejected; i++ {
		metrics.ObserveLabel(metrics.OutcomeFiltered)
	}

	if len(labels) == 0 {
		common.LogInfo("沒有可用的食材標籤", zap.Int("raw_tags", len(tags)))
		metrics.ObserveRun("analyze", 0)
		return []common.ProcessedIngredient{}
	}

	common.LogDebug("標籤過濾完成",
		zap.Int("raw_tags", len(tags)),
		zap.Strings("labels", labels),
	)

	matches := s.orchestrator.Run(ctx, labels)
	results := Dedupe(matches, s.opts.MaxResults)

	common.LogInfo("食材分析完成",
		zap.Int("labels", len(labels)),
		zap.Int("matched", len(matches)),
		zap.Int("ingredients", len(results)),
		zap.Duration("耗時", time.Since(start)),
	)
	metrics.ObserveRun("analyze", len(results))
	return results
}

// AnalyzeImage 先辨識影像再解析，辨識失敗回傳空列表；imageData 應已由 image.Service 轉檔
func (s *Service) AnalyzeImage(ctx context.Context, imageData string) []common.ProcessedIngredient {
	tags, err := s.Recognize(ctx, imageData)
	if err != nil {
		common.LogError("影像辨識失敗", zap.Error(common.Wrap(common.ErrRecognition, err)))
		metrics.ObserveRun("analyze_image", 0)
		return []common.ProcessedIngredient{}
	}
	return s.Analyze(ctx, tags)
}

// Recognize 只執行影像辨識
func (s *Service) Recognize(ctx context.Context, imageData string) ([]string, error) {
	if s.recognizer == nil {
		return nil, common.Wrap(common.ErrRecognition, common.ErrServiceUnavailable)
	}
	return s.recognizer.Recognize(ctx, imageData)
}

// SearchIngredients 直接查詢，略過辨識步驟，信心值為 min(0.9, 基礎相似度)
func (s *Service) SearchIngredients(ctx context.Context, query string, limit int) []common.ProcessedIngredient {
	if limit <= 0 {
		limit = s.opts.SearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	q := NormalizeLabel(query)
	if q == "" {
		return []common.ProcessedIngredient{}
	}

	candidates, err := s.searcher.Search(ctx, q, s.opts.PageSize)
	if err != nil {
		common.LogWarn("食材查詢失敗", zap.String("query", q), zap.Error(err))
		metrics.ObserveRun("search", 0)
		return []common.ProcessedIngredient{}
	}

	// 依調整後分數排序，同名只保留分數最高者
	ranked := s.scorer.Rank(q, candidates)
	results := make([]common.ProcessedIngredient, 0, limit)
	seen := make(map[string]struct{}, len(ranked))
	for _, m := range ranked {
		if len(results) == limit {
			break
		}
		item := toIngredient(m, s.scorer.SimpleConfidence(m))
		key := canonicalKey(item.Name)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, item)
	}

	common.LogDebug("食材查詢完成",
		zap.String("query", q),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)
	metrics.ObserveRun("search", len(results))
	return results
}

// Explain 回傳查詢對描述的評分明細
func (s *Service) Explain(query, description string) []Contribution {
	return s.scorer.Explain(strings.TrimSpace(query), description)
}
