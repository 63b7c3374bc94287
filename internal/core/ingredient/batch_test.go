package ingredient

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fridgewise/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timedSearcher 記錄每次查詢的開始與結束時間，以及同時進行中的最大數量
type timedSearcher struct {
	mu       sync.Mutex
	work     time.Duration
	inFlight int
	peak     int
	started  map[string]time.Time
	finished map[string]time.Time
}

func newTimedSearcher(work time.Duration) *timedSearcher {
	return &timedSearcher{
		work:     work,
		started:  make(map[string]time.Time),
		finished: make(map[string]time.Time),
	}
}

func (s *timedSearcher) Search(_ context.Context, query string, _ int) ([]common.ReferenceFood, error) {
	s.mu.Lock()
	s.started[query] = time.Now()
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	time.Sleep(s.work)

	s.mu.Lock()
	s.inFlight--
	s.finished[query] = time.Now()
	s.mu.Unlock()

	return []common.ReferenceFood{food(query, query)}, nil
}

func TestBatchOrchestrator_PausesBetweenBatches(t *testing.T) {
	const delay = 20 * time.Millisecond

	labels := make([]string, 7)
	for i := range labels {
		labels[i] = fmt.Sprintf("herb%d", i+1)
	}

	searcher := newTimedSearcher(5 * time.Millisecond)
	scorer := NewScorer(DefaultWeights())
	orchestrator := NewBatchOrchestrator(NewRetryExpander(searcher, scorer, DefaultPageSize), scorer, 5, delay)

	got := orchestrator.Run(context.Background(), labels)
	require.Len(t, got, 7)

	searcher.mu.Lock()
	defer searcher.mu.Unlock()

	var firstBatchDone time.Time
	for _, label := range labels[:5] {
		if end := searcher.finished[label]; end.After(firstBatchDone) {
			firstBatchDone = end
		}
	}
	for _, label := range labels[5:] {
		start, ok := searcher.started[label]
		require.True(t, ok, label)
		assert.GreaterOrEqual(t, start.Sub(firstBatchDone), delay, label)
	}

	assert.LessOrEqual(t, searcher.peak, 5)
	assert.Greater(t, searcher.peak, 1)
}

func TestBatchOrchestrator_PauseHonoursCancel(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	orchestrator := NewBatchOrchestrator(NewRetryExpander(newFakeSearcher(), scorer, DefaultPageSize), scorer, 5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.False(t, orchestrator.pause(ctx))
	assert.Less(t, time.Since(start), time.Second)
}
