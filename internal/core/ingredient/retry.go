package ingredient

import (
	"context"
	"strings"

	"fridgewise/internal/pkg/common"
)

// matchState 單一標籤的比對狀態
type matchState int

const (
	stateMatching matchState = iota
	stateRetryPending
	stateResolved
)

// Outcome 單一標籤的比對結果
type Outcome struct {
	Label      string
	Query      string
	Match      Match
	Candidates []common.ReferenceFood
	Matched    bool
	Retried    bool
	Err        error
}

// RetryVariant 單複數變體：不以 s 結尾則加 s，否則去掉結尾的 s
func RetryVariant(query string) string {
	if !strings.HasSuffix(query, "s") {
		return query + "s"
	}
	return strings.TrimSuffix(query, "s")
}

// RetryExpander 查詢並評分，未通過門檻時以變體重試一次
type RetryExpander struct {
	searcher Searcher
	scorer   *Scorer
	pageSize int
}

// NewRetryExpander 創建重試擴展器
func NewRetryExpander(searcher Searcher, scorer *Scorer, pageSize int) *RetryExpander {
	return &RetryExpander{searcher: searcher, scorer: scorer, pageSize: pageSize}
}

// Resolve 執行 Matching → RetryPending → Resolved，最多查詢兩次
// 查詢失敗直接結束且不重試
func (e *RetryExpander) Resolve(ctx context.Context, label string) Outcome {
	out := Outcome{Label: label, Query: label}
	state := stateMatching

	for state != stateResolved {
		candidates, err := e.searcher.Search(ctx, out.Query, e.pageSize)
		if err != nil {
			out.Err = err
			break
		}

		if m, ok := e.scorer.Best(out.Query, candidates); ok {
			out.Match, out.Candidates, out.Matched = m, candidates, true
			break
		}

		switch state {
		case stateMatching:
			variant := RetryVariant(label)
			if variant == "" {
				state = stateResolved
				continue
			}
			out.Query, out.Retried = variant, true
			state = stateRetryPending
		case stateRetryPending:
			state = stateResolved
		}
	}
	return out
}
