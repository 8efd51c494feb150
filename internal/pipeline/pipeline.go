// Package pipeline orchestrates a bird identification request: decode, object
// detection, subject filtering, bird resolution, crop extraction, species
// classification, and profile enrichment.
package pipeline

import (
	"context"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/birdscan/birdscan-go/internal/classifier"
	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/filter"
	"github.com/birdscan/birdscan-go/internal/imageproc"
	"github.com/birdscan/birdscan-go/internal/knowledge"
	"github.com/birdscan/birdscan-go/internal/logging"
)

// Package-level logger specific to the pipeline service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "pipeline.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "pipeline", serviceLevelVar)
	if err != nil {
		log.Printf("FATAL: Failed to initialize pipeline file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "pipeline")
		closeLogger = func() error { return nil }
	}
}

// Outcome is the terminal state of an identification run.
type Outcome int

const (
	// OutcomeIdentified means a species was identified and a profile built.
	OutcomeIdentified Outcome = iota
	// OutcomeRejected means the subject filter refused the image.
	OutcomeRejected
	// OutcomeNoBird means no bird candidate survived any resolution tier.
	OutcomeNoBird
)

// Result carries everything a response needs for any outcome.
type Result struct {
	Outcome         Outcome
	Rejection       *filter.Rejection
	Message         string
	Species         string
	ScientificName  string
	Profile         *knowledge.Profile
	Detections      []filter.BirdCandidate
	DetectedObjects []detection.Object
	Confidence      float64
	Alternatives    []knowledge.Alternative
	LowConfidence   bool
	Advice          string
}

// Enricher builds a complete species profile for an identified species.
type Enricher interface {
	BuildProfile(ctx context.Context, species string, confidence float64, alternatives []knowledge.Alternative) *knowledge.Profile
}

// Config holds the orchestrator's tunables.
type Config struct {
	MaxCrops      int
	PadRatio      float64
	LowConfidence float64
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		MaxCrops:      6,
		PadRatio:      0.15,
		LowConfidence: 0.2,
	}
}

const (
	unknownSpecies   = "Bird (Species Unknown)"
	noBirdMessage    = "No bird detected in the image. Please upload an image with a clear view of a bird."
	lowConfAdvice    = "Low confidence. Try a clearer, closer photo, and optionally provide location and time for better accuracy."
	identifiedPrefix = "Bird detected! Species: "
)

// Orchestrator runs the identification pipeline. It is safe for concurrent
// use; all per-request state lives on the stack.
type Orchestrator struct {
	detector      detection.Detector
	classifier    classifier.Classifier
	enricher      Enricher
	subjectFilter *filter.SubjectFilter
	resolver      *filter.Resolver
	config        Config
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(detector detection.Detector, cls classifier.Classifier, enricher Enricher,
	subjectFilter *filter.SubjectFilter, resolver *filter.Resolver, config Config) *Orchestrator {
	if config.MaxCrops == 0 {
		config.MaxCrops = DefaultConfig().MaxCrops
	}
	if config.PadRatio == 0 {
		config.PadRatio = DefaultConfig().PadRatio
	}
	if config.LowConfidence == 0 {
		config.LowConfidence = DefaultConfig().LowConfidence
	}

	return &Orchestrator{
		detector:      detector,
		classifier:    cls,
		enricher:      enricher,
		subjectFilter: subjectFilter,
		resolver:      resolver,
		config:        config,
	}
}

// Close releases pipeline resources.
func (o *Orchestrator) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing pipeline logger: %v", err)
		}
	}
}

// Process runs the full identification pipeline on an uploaded image. A
// returned error means the image could not be processed at all (corrupt data,
// detector failure); every recoverable condition produces a Result instead.
func (o *Orchestrator) Process(ctx context.Context, imageData []byte, filename string) (*Result, error) {
	start := time.Now()

	// Decode up front so corrupt uploads fail deterministically, before any
	// remote call.
	img, err := imageproc.Decode(imageData)
	if err != nil {
		return nil, err
	}

	detections, err := o.detector.Detect(ctx, imageData, filename)
	if err != nil {
		return nil, errors.Newf("object detection failed: %w", err).
			Category(errors.CategoryModelInference).
			Context("filename", filename).
			Component("pipeline").
			Build()
	}

	detectedObjects := detection.Objects(detections)

	birds := o.resolver.Primary(detections)

	if rejection := o.subjectFilter.Evaluate(detections, len(birds) > 0); rejection != nil {
		logger.Info("Image rejected by subject filter",
			"detection_type", rejection.Type,
			"objects", len(detectedObjects))
		return &Result{
			Outcome:         OutcomeRejected,
			Rejection:       rejection,
			Message:         rejection.Message,
			DetectedObjects: detectedObjects,
		}, nil
	}

	if len(birds) == 0 {
		bounds := img.Bounds()
		frame := detection.BoundingBox{
			X1: 0, Y1: 0,
			X2: float64(bounds.Dx()), Y2: float64(bounds.Dy()),
		}
		birds = o.resolver.Secondary(detections, frame)
	}

	if len(birds) == 0 {
		logger.Info("No bird candidates found", "objects", len(detectedObjects))
		return &Result{
			Outcome:         OutcomeNoBird,
			Message:         noBirdMessage,
			DetectedObjects: detectedObjects,
		}, nil
	}

	boxes := make([]detection.BoundingBox, 0, len(birds))
	for i := range birds {
		boxes = append(boxes, birds[i].Box)
	}
	crops := imageproc.ExtractCrops(img, boxes, o.config.PadRatio, o.config.MaxCrops)

	candidates := o.classify(ctx, crops)

	species := unknownSpecies
	confidence := 0.0
	var alternatives []knowledge.Alternative
	if len(candidates) > 0 {
		species = candidates[0].Species
		confidence = candidates[0].Confidence
		for _, alt := range candidates[1:] {
			alternatives = append(alternatives, knowledge.Alternative{
				Species:    alt.Species,
				Confidence: alt.Confidence,
			})
		}
	}

	logger.Debug("Species classified",
		"species", species,
		"confidence", confidence,
		"crops", len(crops),
		"alternatives", len(alternatives))

	profile := o.enricher.BuildProfile(ctx, species, confidence, alternatives)

	lowConfidence := confidence < o.config.LowConfidence
	advice := ""
	if lowConfidence {
		advice = lowConfAdvice
	}

	logger.Info("Identification complete",
		"species", profile.CommonName,
		"confidence", confidence,
		"low_confidence", lowConfidence,
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{
		Outcome:         OutcomeIdentified,
		Message:         identifiedPrefix + profile.CommonName,
		Species:         profile.CommonName,
		ScientificName:  profile.ScientificName,
		Profile:         profile,
		Detections:      birds,
		DetectedObjects: detectedObjects,
		Confidence:      confidence,
		Alternatives:    profile.Alternatives,
		LowConfidence:   lowConfidence,
		Advice:          advice,
	}, nil
}

// classify runs the classifier backend and degrades to the color heuristic
// when the backend fails or returns nothing.
func (o *Orchestrator) classify(ctx context.Context, crops []*imageproc.Crop) []classifier.Candidate {
	candidates, err := o.classifier.Classify(ctx, crops)
	if err != nil {
		logger.Warn("Classifier backend unavailable, using color heuristic",
			"error", err)
		return classifier.ColorHeuristic(crops)
	}
	if len(candidates) == 0 {
		return classifier.ColorHeuristic(crops)
	}
	return candidates
}
