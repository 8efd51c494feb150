package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/imageproc"
	"github.com/birdscan/birdscan-go/internal/logging"
)

// HTTPClassifier calls a remote species-classification inference service over
// HTTP. Crops are classified independently and aggregated with AggregateMax.
type HTTPClassifier struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// wirePrediction is the inference service's per-species response entry.
type wirePrediction struct {
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
}

// wireResponse is the inference service's classification response.
type wireResponse struct {
	Predictions []wirePrediction `json:"predictions"`
}

// NewHTTPClassifier creates a classifier adapter for a remote inference service.
func NewHTTPClassifier(config Config) (*HTTPClassifier, error) {
	if config.Endpoint == "" {
		return nil, errors.Newf("classifier endpoint is required").
			Category(errors.CategoryConfiguration).
			Component("classifier").
			Build()
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.TopK == 0 {
		config.TopK = DefaultConfig().TopK
	}

	logger := logging.ForService("classifier")
	if logger == nil {
		logger = slog.Default().With("service", "classifier")
	}

	return &HTTPClassifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Classify runs each crop through the inference service and aggregates the
// per-crop predictions by maximum score per species.
func (c *HTTPClassifier) Classify(ctx context.Context, crops []*imageproc.Crop) ([]Candidate, error) {
	if len(crops) == 0 {
		return nil, nil
	}

	start := time.Now()
	perCrop := make([][]Candidate, 0, len(crops))

	for i, crop := range crops {
		predictions, err := c.classifyOne(ctx, crop)
		if err != nil {
			// One failed crop fails the batch; the orchestrator falls back
			// to the color heuristic.
			return nil, errors.Newf("classification failed on crop %d: %w", i, err).
				Category(errors.CategoryModelInference).
				Context("crop_index", i).
				Component("classifier").
				Build()
		}
		perCrop = append(perCrop, predictions)
	}

	aggregated := AggregateMax(perCrop, c.config.TopK)

	c.logger.Debug("classification complete",
		"crops", len(crops),
		"candidates", len(aggregated),
		"duration_ms", time.Since(start).Milliseconds())

	return aggregated, nil
}

// classifyOne posts a single crop to the inference service.
func (c *HTTPClassifier) classifyOne(ctx context.Context, crop *imageproc.Crop) ([]Candidate, error) {
	encoded, err := imageproc.EncodeJPEG(crop.Image)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "crop.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(encoded); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := c.config.Endpoint + "/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("classifier request failed", "error", err, "url", url)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("classifier returned error status",
			"status_code", resp.StatusCode,
			"url", url)
		return nil, errors.Newf("classifier returned status %d", resp.StatusCode).
			Category(errors.CategoryModelInference).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var wire wireResponse
	if err := json.Unmarshal(bodyBytes, &wire); err != nil {
		return nil, err
	}

	predictions := make([]Candidate, 0, len(wire.Predictions))
	for _, p := range wire.Predictions {
		predictions = append(predictions, Candidate{Species: p.Species, Confidence: p.Confidence})
	}
	return predictions, nil
}
