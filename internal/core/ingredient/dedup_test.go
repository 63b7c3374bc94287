package ingredient

import (
	"fmt"
	"testing"

	"fridgewise/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredient(name string, confidence float64, id string) common.ProcessedIngredient {
	return common.ProcessedIngredient{
		Name:        name,
		Category:    common.CategoryOther,
		Confidence:  confidence,
		Source:      common.SourceMatched,
		ReferenceID: id,
	}
}

func TestDedupe_KeepsHighestConfidence(t *testing.T) {
	got := Dedupe([]common.ProcessedIngredient{
		ingredient("Tomatoes", 0.4, "1"),
		ingredient("tomatoes ", 0.7, "2"),
		ingredient("Onions", 0.5, "3"),
	}, 12)

	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ReferenceID)
	assert.Equal(t, "3", got[1].ReferenceID)
}

func TestDedupe_GroupsByNormalizedName(t *testing.T) {
	got := Dedupe([]common.ProcessedIngredient{
		ingredient("Green  onions", 0.6, "1"),
		ingredient("green onions", 0.7, "2"),
	}, 12)

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ReferenceID)
}

func TestPreferred_TieBreaks(t *testing.T) {
	assert.True(t, preferred(ingredient("Onions", 0.6, "2"), ingredient("Green onions", 0.6, "1")))
	assert.False(t, preferred(ingredient("Green onions", 0.6, "1"), ingredient("Onions", 0.6, "2")))
	assert.True(t, preferred(ingredient("Green onions", 0.7, "1"), ingredient("Onions", 0.6, "2")))
	assert.True(t, preferred(ingredient("Onions", 0.6, "1"), ingredient("Onions", 0.6, "2")))
}

func TestDedupe_OrderIndependent(t *testing.T) {
	a := []common.ProcessedIngredient{
		ingredient("Apples", 0.5, "1"),
		ingredient("apples", 0.5, "2"),
		ingredient("Pears", 0.5, "3"),
	}
	b := []common.ProcessedIngredient{a[2], a[1], a[0]}

	assert.Equal(t, Dedupe(a, 12), Dedupe(b, 12))
}

func TestDedupe_Idempotent(t *testing.T) {
	var items []common.ProcessedIngredient
	for i := 0; i < 20; i++ {
		items = append(items, ingredient(fmt.Sprintf("Item %d", i%7), float64(i%5)/10, fmt.Sprint(i)))
	}

	once := Dedupe(items, 5)
	twice := Dedupe(once, 5)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 5)
}

func TestDedupe_SortsAndTruncates(t *testing.T) {
	var items []common.ProcessedIngredient
	for i := 1; i <= 30; i++ {
		items = append(items, ingredient(fmt.Sprintf("Food%02d", i), float64(i)/100, fmt.Sprint(i)))
	}

	got := Dedupe(items, 12)
	require.Len(t, got, 12)
	assert.Equal(t, "Food30", got[0].Name)
	assert.Equal(t, "Food19", got[11].Name)
}

func TestDedupe_EmptyInput(t *testing.T) {
	got := Dedupe(nil, 12)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
