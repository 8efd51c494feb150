package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMaxTakesMaximumNotAverage(t *testing.T) {
	t.Parallel()

	perCrop := [][]Candidate{
		{{Species: "X", Confidence: 0.9}, {Species: "Y", Confidence: 0.2}},
		{{Species: "X", Confidence: 0.1}, {Species: "Y", Confidence: 0.7}},
	}

	aggregated := AggregateMax(perCrop, 5)
	require.Len(t, aggregated, 2)

	assert.Equal(t, "X", aggregated[0].Species)
	assert.InDelta(t, 0.9, aggregated[0].Confidence, 1e-9)
	assert.Equal(t, "Y", aggregated[1].Species)
	assert.InDelta(t, 0.7, aggregated[1].Confidence, 1e-9)
}

func TestAggregateMaxTruncatesToTopK(t *testing.T) {
	t.Parallel()

	perCrop := [][]Candidate{{
		{Species: "A", Confidence: 0.5},
		{Species: "B", Confidence: 0.4},
		{Species: "C", Confidence: 0.3},
	}}

	aggregated := AggregateMax(perCrop, 2)
	require.Len(t, aggregated, 2)
	assert.Equal(t, "A", aggregated[0].Species)
	assert.Equal(t, "B", aggregated[1].Species)
}

func TestAggregateMaxStableForEqualScores(t *testing.T) {
	t.Parallel()

	perCrop := [][]Candidate{{
		{Species: "first", Confidence: 0.5},
		{Species: "second", Confidence: 0.5},
	}}

	aggregated := AggregateMax(perCrop, 5)
	require.Len(t, aggregated, 2)
	assert.Equal(t, "first", aggregated[0].Species)
	assert.Equal(t, "second", aggregated[1].Species)
}

func TestAggregateMaxEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, AggregateMax(nil, 5))
	assert.Empty(t, AggregateMax([][]Candidate{{}, {}}, 5))
}
