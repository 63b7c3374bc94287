package ingredient

import (
	"context"
	"fmt"
	"testing"

	"fridgewise/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestRetryVariant(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"carrot", "carrots"},
		{"apples", "apple"},
		{"tomatoes", "tomatoe"},
		{"s", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RetryVariant(tt.in), tt.in)
	}
}

func TestRetryExpander_MatchesFirstTry(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["apple"] = []common.ReferenceFood{food("1", "Apples, raw")}

	out := NewRetryExpander(searcher, NewScorer(DefaultWeights()), 20).Resolve(context.Background(), "apple")

	assert.True(t, out.Matched)
	assert.False(t, out.Retried)
	assert.Equal(t, []string{"apple"}, searcher.Calls())
}

func TestRetryExpander_RetriesWithPlural(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["carrots"] = []common.ReferenceFood{food("11124", "Carrots, raw")}

	out := NewRetryExpander(searcher, NewScorer(DefaultWeights()), 20).Resolve(context.Background(), "carrot")

	assert.True(t, out.Matched)
	assert.True(t, out.Retried)
	assert.Equal(t, "carrots", out.Query)
	assert.Equal(t, "11124", out.Match.Food.ID)
	assert.Equal(t, []string{"carrot", "carrots"}, searcher.Calls())
}

func TestRetryExpander_RetriesWithSingular(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["apple"] = []common.ReferenceFood{food("1", "Apples, raw")}

	out := NewRetryExpander(searcher, NewScorer(DefaultWeights()), 20).Resolve(context.Background(), "apples")

	assert.True(t, out.Matched)
	assert.Equal(t, []string{"apples", "apple"}, searcher.Calls())
}

func TestRetryExpander_RetriesOnlyOnce(t *testing.T) {
	searcher := newFakeSearcher()

	out := NewRetryExpander(searcher, NewScorer(DefaultWeights()), 20).Resolve(context.Background(), "xyzzy")

	assert.False(t, out.Matched)
	assert.True(t, out.Retried)
	assert.NoError(t, out.Err)
	assert.Equal(t, []string{"xyzzy", "xyzzys"}, searcher.Calls())
}

func TestRetryExpander_SearchFailureIsTerminal(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.errs["beef"] = fmt.Errorf("fdc: %w", common.ErrSearchFailure)

	out := NewRetryExpander(searcher, NewScorer(DefaultWeights()), 20).Resolve(context.Background(), "beef")

	assert.False(t, out.Matched)
	assert.ErrorIs(t, out.Err, common.ErrSearchFailure)
	assert.Equal(t, []string{"beef"}, searcher.Calls())
}
