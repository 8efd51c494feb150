package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdscan/birdscan-go/internal/classifier"
	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/filter"
	"github.com/birdscan/birdscan-go/internal/imageproc"
	"github.com/birdscan/birdscan-go/internal/knowledge"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

// fakeDetector returns canned detections or an error.
type fakeDetector struct {
	detections []detection.Detection
	err        error
}

func (d *fakeDetector) Detect(_ context.Context, _ []byte, _ string) ([]detection.Detection, error) {
	return d.detections, d.err
}

// fakeClassifier returns canned candidates or an error.
type fakeClassifier struct {
	candidates []classifier.Candidate
	err        error
}

func (c *fakeClassifier) Classify(_ context.Context, _ []*imageproc.Crop) ([]classifier.Candidate, error) {
	return c.candidates, c.err
}

// fakeEnricher builds a minimal complete profile and records the call.
type fakeEnricher struct {
	species      string
	confidence   float64
	alternatives []knowledge.Alternative
}

func (e *fakeEnricher) BuildProfile(_ context.Context, species string, confidence float64, alternatives []knowledge.Alternative) *knowledge.Profile {
	e.species = species
	e.confidence = confidence
	e.alternatives = alternatives

	profile := &knowledge.Profile{
		CommonName:   species,
		Confidence:   confidence,
		Alternatives: alternatives,
	}
	profile.FillDefaults()
	return profile
}

func newOrchestrator(det detection.Detector, cls classifier.Classifier, enricher Enricher) *Orchestrator {
	labels := vocab.COCO()
	return NewOrchestrator(det, cls, enricher,
		filter.NewSubjectFilter(labels, filter.DefaultThresholds()),
		filter.NewResolver(labels, 0.1, 0.6),
		DefaultConfig())
}

// birdImage is a small valid PNG upload.
func birdImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func birdDetection(confidence float64) detection.Detection {
	return detection.Detection{
		ClassID:    14,
		Label:      "bird",
		Confidence: confidence,
		Box:        detection.BoundingBox{X1: 4, Y1: 4, X2: 40, Y2: 40},
	}
}

func TestProcessIdentifiesSpecies(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{birdDetection(0.9)}}
	cls := &fakeClassifier{candidates: []classifier.Candidate{
		{Species: "Bald Eagle", Confidence: 0.87},
		{Species: "Golden Eagle", Confidence: 0.4},
	}}
	enricher := &fakeEnricher{}

	result, err := newOrchestrator(det, cls, enricher).Process(context.Background(), birdImage(t), "eagle.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeIdentified, result.Outcome)
	assert.Equal(t, "Bird detected! Species: Bald Eagle", result.Message)
	assert.Equal(t, "Bald Eagle", result.Species)
	assert.InDelta(t, 0.87, result.Confidence, 1e-9)
	assert.False(t, result.LowConfidence)
	assert.Empty(t, result.Advice)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Animalia", result.Profile.Taxonomy.Kingdom)

	require.Len(t, result.Detections, 1)
	assert.Equal(t, detection.BoundingBox{X1: 4, Y1: 4, X2: 40, Y2: 40}, result.Detections[0].Box)

	require.Len(t, enricher.alternatives, 1)
	assert.Equal(t, "Golden Eagle", enricher.alternatives[0].Species)
}

func TestProcessRejectsHumanPhoto(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{
		{ClassID: 0, Label: "person", Confidence: 0.8},
	}}

	result, err := newOrchestrator(det, &fakeClassifier{}, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "selfie.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeRejected, result.Outcome)
	require.NotNil(t, result.Rejection)
	assert.Equal(t, filter.RejectionHuman, result.Rejection.Type)
	assert.Equal(t, result.Rejection.Message, result.Message)
	require.Len(t, result.DetectedObjects, 1)
	assert.Equal(t, "person", result.DetectedObjects[0].Class)
}

func TestProcessNoBird(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{
		{ClassID: 13, Label: "bench", Confidence: 0.5},
	}}

	result, err := newOrchestrator(det, &fakeClassifier{}, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "bench.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoBird, result.Outcome)
	assert.Equal(t, "No bird detected in the image. Please upload an image with a clear view of a bird.", result.Message)
}

func TestProcessSecondaryTierUsesFullFrame(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{
		{ClassID: 33, Label: "kite", Confidence: 0.45, Box: detection.BoundingBox{X1: 1, Y1: 1, X2: 5, Y2: 5}},
	}}
	cls := &fakeClassifier{candidates: []classifier.Candidate{{Species: "Black Kite", Confidence: 0.7}}}

	result, err := newOrchestrator(det, cls, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "kite.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeIdentified, result.Outcome)
	require.Len(t, result.Detections, 1)
	assert.Equal(t, "kite", result.Detections[0].DetectedAs)
	assert.Equal(t, detection.BoundingBox{X1: 0, Y1: 0, X2: 64, Y2: 48}, result.Detections[0].Box)
}

func TestProcessLowConfidence(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{birdDetection(0.9)}}

	tests := []struct {
		name       string
		confidence float64
		low        bool
	}{
		{"below threshold", 0.15, true},
		{"above threshold", 0.25, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cls := &fakeClassifier{candidates: []classifier.Candidate{{Species: "House Sparrow", Confidence: tt.confidence}}}
			result, err := newOrchestrator(det, cls, &fakeEnricher{}).
				Process(context.Background(), birdImage(t), "sparrow.png")
			require.NoError(t, err)

			assert.Equal(t, tt.low, result.LowConfidence)
			if tt.low {
				assert.NotEmpty(t, result.Advice)
			} else {
				assert.Empty(t, result.Advice)
			}
		})
	}
}

func TestProcessClassifierFailureUsesHeuristic(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{birdDetection(0.9)}}
	cls := &fakeClassifier{err: errors.Newf("backend down").Category(errors.CategoryModelInference).Build()}
	enricher := &fakeEnricher{}

	result, err := newOrchestrator(det, cls, enricher).
		Process(context.Background(), birdImage(t), "bird.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeIdentified, result.Outcome)
	// The gray test image lands in the heuristic's neutral bucket
	assert.Equal(t, "House Sparrow", result.Species)
	assert.Equal(t, "House Sparrow", enricher.species)
}

func TestProcessEmptyClassificationUsesHeuristic(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{birdDetection(0.9)}}
	// Classifier succeeds but returns no candidates
	cls := &fakeClassifier{}

	result, err := newOrchestrator(det, cls, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "bird.png")
	require.NoError(t, err)

	assert.Equal(t, OutcomeIdentified, result.Outcome)
	assert.Equal(t, "House Sparrow", result.Species)
}

func TestProcessCorruptImage(t *testing.T) {
	t.Parallel()

	_, err := newOrchestrator(&fakeDetector{}, &fakeClassifier{}, &fakeEnricher{}).
		Process(context.Background(), []byte("not an image"), "garbage.bin")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageDecode))
}

func TestProcessDetectorFailure(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{err: errors.Newf("connection refused").Category(errors.CategoryNetwork).Build()}

	_, err := newOrchestrator(det, &fakeClassifier{}, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "bird.png")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryModelInference))
}

func TestProcessBirdOverridesIndoorFilter(t *testing.T) {
	t.Parallel()

	det := &fakeDetector{detections: []detection.Detection{
		birdDetection(0.9),
		{ClassID: 56, Label: "chair", Confidence: 0.8},
		{ClassID: 62, Label: "tv", Confidence: 0.7},
	}}
	cls := &fakeClassifier{candidates: []classifier.Candidate{{Species: "Budgerigar", Confidence: 0.8}}}

	result, err := newOrchestrator(det, cls, &fakeEnricher{}).
		Process(context.Background(), birdImage(t), "indoor-bird.png")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIdentified, result.Outcome)
}
