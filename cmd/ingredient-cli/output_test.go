package main

import (
	"bytes"
	"strings"
	"testing"

	"fridgewise/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTags(t *testing.T) {
	tags, err := readTags([]string{"tomato", "basil"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "basil"}, tags)

	tags, err = readTags(nil, strings.NewReader("tomato, basil\n\n  green onion \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "basil", "green onion"}, tags)
}

func TestRenderIngredients(t *testing.T) {
	items := []common.ProcessedIngredient{{
		Name:        "Tomatoes",
		Category:    common.CategoryVegetables,
		Confidence:  0.5,
		Source:      common.SourceMatched,
		ReferenceID: "170456",
	}}

	var buf bytes.Buffer
	require.NoError(t, renderIngredients(&buf, items, false))
	assert.JSONEq(t, `{"ingredients":[{"name":"Tomatoes","category":"vegetables","confidence":0.5,"source":"matched","reference_id":"170456"}],"count":1}`, buf.String())

	buf.Reset()
	require.NoError(t, renderIngredients(&buf, items, true))
	assert.Equal(t, "- Tomatoes (vegetables): 0.50 [170456]\n", buf.String())

	buf.Reset()
	require.NoError(t, renderIngredients(&buf, nil, false))
	assert.JSONEq(t, `{"ingredients":[],"count":0}`, buf.String())
}
