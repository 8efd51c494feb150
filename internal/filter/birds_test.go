package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(vocab.COCO(), 0.1, 0.6)
}

var fullFrame = detection.BoundingBox{X1: 0, Y1: 0, X2: 640, Y2: 480}

func TestPrimaryBirdDetections(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	box := detection.BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 120}
	detections := []detection.Detection{
		{ClassID: 14, Label: "bird", Confidence: 0.85, Box: box},
		{ClassID: 13, Label: "bench", Confidence: 0.9},
	}

	candidates := r.Primary(detections)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 0.85, candidates[0].Confidence, 1e-9)
	assert.Equal(t, box, candidates[0].Box)
	assert.Empty(t, candidates[0].DetectedAs)
	assert.False(t, candidates[0].Fallback)
}

func TestPrimaryConfidenceFloorIsStrict(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	detections := []detection.Detection{
		{ClassID: 14, Label: "bird", Confidence: 0.1},
	}
	assert.Empty(t, r.Primary(detections))

	detections[0].Confidence = 0.11
	assert.Len(t, r.Primary(detections), 1)
}

func TestPrimaryKeepsDetectorOrder(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	detections := []detection.Detection{
		{ClassID: 14, Label: "bird", Confidence: 0.3},
		{ClassID: 14, Label: "bird", Confidence: 0.9},
	}

	candidates := r.Primary(detections)
	require.Len(t, candidates, 2)
	assert.InDelta(t, 0.3, candidates[0].Confidence, 1e-9)
	assert.InDelta(t, 0.9, candidates[1].Confidence, 1e-9)
}

func TestSecondaryKeywordMatch(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	detections := []detection.Detection{
		{ClassID: 13, Label: "bench", Confidence: 0.4},
		{ClassID: 79, Label: "barn owl", Confidence: 0.35},
		{ClassID: 79, Label: "tawny owl", Confidence: 0.5},
	}

	candidates := r.Secondary(detections, fullFrame)
	require.Len(t, candidates, 1)
	assert.Equal(t, "barn owl", candidates[0].DetectedAs)
	assert.InDelta(t, 0.35, candidates[0].Confidence, 1e-9)
	assert.Equal(t, fullFrame, candidates[0].Box)
	assert.False(t, candidates[0].Fallback)
}

func TestSecondaryFallbackTier(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	// No keyword label present and nothing above the fallback floor
	detections := []detection.Detection{
		{ClassID: 13, Label: "bench", Confidence: 0.55},
	}
	assert.Empty(t, r.Secondary(detections, fullFrame))

	detections[0].Confidence = 0.7
	candidates := r.Secondary(detections, fullFrame)
	require.Len(t, candidates, 1)
	assert.Equal(t, "bench", candidates[0].DetectedAs)
	assert.InDelta(t, 0.7, candidates[0].Confidence, 1e-9)
	assert.Equal(t, fullFrame, candidates[0].Box)
	assert.True(t, candidates[0].Fallback)
}

func TestSecondaryFallbackPicksMostConfident(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	detections := []detection.Detection{
		{ClassID: 13, Label: "bench", Confidence: 0.65},
		{ClassID: 8, Label: "boat", Confidence: 0.8},
	}

	candidates := r.Secondary(detections, fullFrame)
	require.Len(t, candidates, 1)
	assert.Equal(t, "boat", candidates[0].DetectedAs)
}

func TestSecondaryKeywordBeatsFallback(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	detections := []detection.Detection{
		{ClassID: 8, Label: "boat", Confidence: 0.9},
		{ClassID: 79, Label: "woodpecker", Confidence: 0.3},
	}

	candidates := r.Secondary(detections, fullFrame)
	require.Len(t, candidates, 1)
	assert.Equal(t, "woodpecker", candidates[0].DetectedAs)
	assert.False(t, candidates[0].Fallback)
}

func TestSecondaryEmptyDetections(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	assert.Empty(t, r.Secondary(nil, fullFrame))
}
