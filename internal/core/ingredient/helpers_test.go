package ingredient

import (
	"context"
	"sync"

	"fridgewise/internal/pkg/common"
)

// fakeSearcher 依查詢字串回傳固定候選
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]common.ReferenceFood
	errs    map[string]error
	panics  map[string]bool
	calls   []string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]common.ReferenceFood),
		errs:    make(map[string]error),
		panics:  make(map[string]bool),
	}
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]common.ReferenceFood, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	res, err, p := f.results[query], f.errs[query], f.panics[query]
	f.mu.Unlock()

	if p {
		panic("searcher exploded")
	}
	return res, err
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeRecognizer struct {
	tags []string
	err  error
}

func (f *fakeRecognizer) Recognize(context.Context, string) ([]string, error) {
	return f.tags, f.err
}

func food(id, description string) common.ReferenceFood {
	return common.ReferenceFood{ID: id, Description: description}
}

func scoredFood(id, description string, score float64) common.ReferenceFood {
	return common.ReferenceFood{ID: id, Description: description, RelevanceScore: &score}
}
