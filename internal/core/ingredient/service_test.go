package ingredient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fridgewise/internal/infrastructure/metrics"
	"fridgewise/internal/pkg/common"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(searcher Searcher, recognizer Recognizer) *Service {
	return NewService(recognizer, searcher, Options{MaxResults: 12, BatchSize: 5, BatchDelay: 0})
}

func TestService_AnalyzeTomatoScenario(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["tomato"] = []common.ReferenceFood{
		food("170457", "Tomatoes, red, ripe, raw"),
		food("170456", "Tomatoes, green, raw"),
	}

	got := newTestService(searcher, nil).Analyze(context.Background(), []string{"tomato", "tomato", "random gadget"})

	require.Len(t, got, 1)
	assert.Equal(t, "Tomatoes", got[0].Name)
	assert.Equal(t, common.CategoryVegetables, got[0].Category)
	assert.Equal(t, common.SourceMatched, got[0].Source)
	assert.Greater(t, got[0].Confidence, 0.0)
	assert.Less(t, got[0].Confidence, 0.95)
	assert.Equal(t, []string{"tomato"}, searcher.Calls())
}

func TestService_AnalyzeNoMatch(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["xyzzy"] = []common.ReferenceFood{food("1", "Beef, ground, 80% lean meat / 20% fat, raw")}
	searcher.results["xyzzys"] = []common.ReferenceFood{food("1", "Beef, ground, 80% lean meat / 20% fat, raw")}

	got := newTestService(searcher, nil).Analyze(context.Background(), []string{"xyzzy"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, []string{"xyzzy", "xyzzys"}, searcher.Calls())
}

func TestService_AnalyzeAllFiltered(t *testing.T) {
	searcher := newFakeSearcher()

	got := newTestService(searcher, nil).Analyze(context.Background(), []string{"番茄", "plate"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, searcher.Calls())
}

func TestService_AnalyzeFilteredMetricIgnoresDuplicates(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["tomato"] = []common.ReferenceFood{food("1", "Tomatoes, green, raw")}
	filtered := metrics.LabelsTotal.WithLabelValues(metrics.OutcomeFiltered)
	before := testutil.ToFloat64(filtered)

	newTestService(searcher, nil).Analyze(context.Background(), []string{"tomato", "tomato", "TOMATO", "plate"})

	assert.Equal(t, 1.0, testutil.ToFloat64(filtered)-before)
}

func TestService_AnalyzeResultCap(t *testing.T) {
	searcher := newFakeSearcher()
	var tags []string
	for i := 1; i <= 30; i++ {
		label := fmt.Sprintf("spice%02d", i)
		tags = append(tags, label)
		searcher.results[label] = []common.ReferenceFood{
			scoredFood(fmt.Sprint(i), label, float64(50+i)),
			scoredFood("x", "zzz unrelated", 100),
		}
	}

	got := newTestService(searcher, nil).Analyze(context.Background(), tags)

	require.Len(t, got, 12)
	for i, item := range got {
		assert.Equal(t, fmt.Sprintf("Spice%02d", 30-i), item.Name)
		assert.LessOrEqual(t, item.Confidence, 0.95)
	}
}

func TestService_AnalyzeIsolatesLabelFailures(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.errs["beef"] = fmt.Errorf("fdc: %w", common.ErrSearchFailure)
	searcher.errs["pork"] = common.Wrap(common.ErrAuthFailure, errors.New("403 Forbidden"))
	searcher.panics["lamb"] = true
	searcher.results["tomato"] = []common.ReferenceFood{food("1", "Tomatoes, green, raw")}

	got := newTestService(searcher, nil).Analyze(context.Background(), []string{"beef", "pork", "lamb", "tomato"})

	require.Len(t, got, 1)
	assert.Equal(t, "Tomatoes", got[0].Name)
}

func TestService_AnalyzeDeduplicatesCanonicalNames(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["tomato"] = []common.ReferenceFood{food("1", "Tomatoes, green, raw")}
	searcher.results["tomatoes"] = []common.ReferenceFood{food("2", "Tomatoes")}

	got := newTestService(searcher, nil).Analyze(context.Background(), []string{"tomato", "tomatoes"})

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ReferenceID)
	assert.Equal(t, 0.9, got[0].Confidence)
}

func TestService_AnalyzeStopsOnCancel(t *testing.T) {
	searcher := newFakeSearcher()
	var tags []string
	for i := 1; i <= 7; i++ {
		label := fmt.Sprintf("herb%d", i)
		tags = append(tags, label)
		searcher.results[label] = []common.ReferenceFood{food(label, label)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestService(searcher, nil).Analyze(ctx, tags)

	assert.Len(t, searcher.Calls(), 5)
	assert.Len(t, got, 5)
}

func TestService_AnalyzeImage(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["tomato"] = []common.ReferenceFood{food("1", "Tomatoes, green, raw")}

	ok := newTestService(searcher, &fakeRecognizer{tags: []string{"tomato", "番茄"}})
	got := ok.AnalyzeImage(context.Background(), "data:image/jpeg;base64,AAAA")
	require.Len(t, got, 1)

	failing := newTestService(searcher, &fakeRecognizer{err: fmt.Errorf("vision: %w", common.ErrRecognition)})
	got = failing.AnalyzeImage(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	noRecognizer := newTestService(searcher, nil)
	assert.Empty(t, noRecognizer.AnalyzeImage(context.Background(), "data:image/jpeg;base64,AAAA"))
	_, err := noRecognizer.Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrRecognition)
}

func TestService_SearchIngredients(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["apple"] = []common.ReferenceFood{
		food("1", "Apples, raw"),
		food("2", "Apple"),
		food("3", "Apples, raw, without skin"),
		food("4", "Apple juice, canned or bottled, unsweetened, without added ascorbic acid"),
	}
	svc := newTestService(searcher, nil)

	got := svc.SearchIngredients(context.Background(), "  Apple ", 0)

	require.Len(t, got, 2)
	assert.Equal(t, "Apple", got[0].Name)
	assert.Equal(t, "2", got[0].ReferenceID)
	assert.Equal(t, 0.9, got[0].Confidence)
	assert.Equal(t, common.CategoryFruits, got[0].Category)
	assert.Equal(t, "Apples", got[1].Name)
	assert.Less(t, got[1].Confidence, 0.9)
}

func TestService_SearchIngredientsLimit(t *testing.T) {
	searcher := newFakeSearcher()
	var candidates []common.ReferenceFood
	for i := 0; i < 40; i++ {
		candidates = append(candidates, food(fmt.Sprint(i), fmt.Sprintf("salt %d", i)))
	}
	searcher.results["salt"] = candidates
	svc := newTestService(searcher, nil)

	assert.Len(t, svc.SearchIngredients(context.Background(), "salt", 3), 3)
	assert.Len(t, svc.SearchIngredients(context.Background(), "salt", 0), DefaultSearchLimit)
	assert.Len(t, svc.SearchIngredients(context.Background(), "salt", 100), MaxSearchLimit)
}

func TestService_SearchIngredientsFailures(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.errs["milk"] = common.Wrap(common.ErrSearchFailure, errors.New("503"))
	svc := newTestService(searcher, nil)

	got := svc.SearchIngredients(context.Background(), "milk", 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, svc.SearchIngredients(context.Background(), "   ", 5))
}

func TestService_Explain(t *testing.T) {
	svc := newTestService(newFakeSearcher(), nil)

	explained := svc.Explain("tomato", "Tomatoes")
	require.NotEmpty(t, explained)
	assert.Equal(t, "similarity", explained[0].Rule)
	assert.Equal(t, 5.0, contributions(explained)["plural_match"])
}
