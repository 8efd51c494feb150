package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/logging"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

// HTTPDetector calls a remote object-detection inference service over HTTP.
type HTTPDetector struct {
	config     Config
	labels     *vocab.Labels
	httpClient *http.Client
	logger     *slog.Logger
}

// wireDetection is the inference service's per-object response entry.
type wireDetection struct {
	ClassID    int         `json:"class_id"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
}

// wireResponse is the inference service's detection response.
type wireResponse struct {
	Detections []wireDetection `json:"detections"`
}

// NewHTTPDetector creates a detector adapter for a remote inference service.
func NewHTTPDetector(config Config, labels *vocab.Labels) (*HTTPDetector, error) {
	if config.Endpoint == "" {
		return nil, errors.Newf("detector endpoint is required").
			Category(errors.CategoryConfiguration).
			Component("detection").
			Build()
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	logger := logging.ForService("detection")
	if logger == nil {
		logger = slog.Default().With("service", "detection")
	}

	return &HTTPDetector{
		config: config,
		labels: labels,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Detect posts the image to the inference service and returns labeled
// detections at or above the configured confidence floor.
func (d *HTTPDetector) Detect(ctx context.Context, image []byte, filename string) ([]Detection, error) {
	start := time.Now()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, errors.Newf("failed to create multipart request: %w", err).
			Category(errors.CategoryModelInference).
			Component("detection").
			Build()
	}
	if _, err := part.Write(image); err != nil {
		return nil, errors.Newf("failed to write image data: %w", err).
			Category(errors.CategoryModelInference).
			Component("detection").
			Build()
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Newf("failed to finalize multipart request: %w", err).
			Category(errors.CategoryModelInference).
			Component("detection").
			Build()
	}

	url := d.config.Endpoint + "/detect"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("detection").
			Build()
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("detector request failed", "error", err, "url", url)
		return nil, errors.Newf("detector request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("detection").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf("failed to read detector response: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("detection").
			Build()
	}

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("detector returned error status",
			"status_code", resp.StatusCode,
			"url", url)
		return nil, errors.Newf("detector returned status %d", resp.StatusCode).
			Category(errors.CategoryModelInference).
			Context("status_code", resp.StatusCode).
			Context("url", url).
			Component("detection").
			Build()
	}

	var wire wireResponse
	if err := json.Unmarshal(bodyBytes, &wire); err != nil {
		return nil, errors.Newf("failed to parse detector response: %w", err).
			Category(errors.CategoryFileParsing).
			Context("response_size", len(bodyBytes)).
			Component("detection").
			Build()
	}

	detections := make([]Detection, 0, len(wire.Detections))
	for i := range wire.Detections {
		w := &wire.Detections[i]
		if w.Confidence < d.config.MinConfidence {
			continue
		}
		label := d.labels.Name(w.ClassID)
		if label == "" {
			// Class index outside the vocabulary, skip it
			continue
		}
		detections = append(detections, Detection{
			ClassID:    w.ClassID,
			Label:      label,
			Confidence: w.Confidence,
			Box:        w.Box,
		})
	}

	d.logger.Debug("detection complete",
		"detections", len(detections),
		"raw_detections", len(wire.Detections),
		"duration_ms", time.Since(start).Milliseconds())

	return detections, nil
}

// Healthy checks whether the inference service responds on its health endpoint.
func (d *HTTPDetector) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.config.Endpoint+"/health", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
