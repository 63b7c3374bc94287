package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("snacks").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestReferenceFood_HasRelevance(t *testing.T) {
	zero, positive := 0.0, 12.5
	assert.False(t, ReferenceFood{}.HasRelevance())
	assert.False(t, ReferenceFood{RelevanceScore: &zero}.HasRelevance())
	assert.True(t, ReferenceFood{RelevanceScore: &positive}.HasRelevance())
}

func TestNewIngredientListResponse(t *testing.T) {
	resp := NewIngredientListResponse(nil)
	assert.NotNil(t, resp.Ingredients)
	assert.Equal(t, 0, resp.Count)

	resp = NewIngredientListResponse([]ProcessedIngredient{{Name: "Milk"}})
	assert.Equal(t, 1, resp.Count)
}
