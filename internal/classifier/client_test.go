package classifier

import (
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/imageproc"
)

func testCrop(t *testing.T) *imageproc.Crop {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.White)
		}
	}
	return &imageproc.Crop{Image: img}
}

func TestNewHTTPClassifierRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPClassifier(Config{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestClassifyAggregatesAcrossCrops(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/classify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		// First crop sees species A stronger, second crop species B
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"predictions": [{"species": "A", "confidence": 0.8}, {"species": "B", "confidence": 0.3}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"predictions": [{"species": "A", "confidence": 0.2}, {"species": "B", "confidence": 0.6}]}`))
	}))
	t.Cleanup(server.Close)

	cls, err := NewHTTPClassifier(Config{Endpoint: server.URL, TopK: 5})
	require.NoError(t, err)

	candidates, err := cls.Classify(context.Background(), []*imageproc.Crop{testCrop(t), testCrop(t)})
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, Candidate{Species: "A", Confidence: 0.8}, candidates[0])
	assert.Equal(t, Candidate{Species: "B", Confidence: 0.6}, candidates[1])
}

func TestClassifyFailsBatchOnCropError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"predictions": [{"species": "A", "confidence": 0.8}]}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	cls, err := NewHTTPClassifier(Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = cls.Classify(context.Background(), []*imageproc.Crop{testCrop(t), testCrop(t)})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryModelInference))
}

func TestClassifyNoCrops(t *testing.T) {
	t.Parallel()

	cls, err := NewHTTPClassifier(Config{Endpoint: "http://localhost:8501"})
	require.NoError(t, err)

	candidates, err := cls.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
