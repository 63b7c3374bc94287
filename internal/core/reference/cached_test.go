package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"fridgewise/internal/core/cache"
	"fridgewise/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSearcher_ServesRepeatsFromCache(t *testing.T) {
	score := 500.0
	next := &stubSearcher{foods: []common.ReferenceFood{
		{ID: "170457", Description: "Tomatoes, red, ripe, raw", CategoryHint: "Vegetables and Vegetable Products", RelevanceScore: &score},
	}}
	store := cache.NewMemoryStore(10, time.Minute, 0)
	defer store.Close()

	s := NewCachedSearcher(next, store)

	first, err := s.Search(context.Background(), "tomato", 20)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), " Tomato ", 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = s.Search(context.Background(), "tomato", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedSearcher_DoesNotCacheErrors(t *testing.T) {
	next := &stubSearcher{err: common.Wrap(common.ErrSearchFailure, errors.New("503"))}
	store := cache.NewMemoryStore(10, time.Minute, 0)
	defer store.Close()

	s := NewCachedSearcher(next, store)

	_, err := s.Search(context.Background(), "tomato", 20)
	assert.ErrorIs(t, err, common.ErrSearchFailure)
	_, err = s.Search(context.Background(), "tomato", 20)
	assert.ErrorIs(t, err, common.ErrSearchFailure)
	assert.Equal(t, 2, next.calls)
}

func TestNewCachedSearcher_NilStore(t *testing.T) {
	next := &stubSearcher{}
	assert.Same(t, next, NewCachedSearcher(next, nil))
}
