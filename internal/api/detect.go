package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/filter"
	"github.com/birdscan/birdscan-go/internal/knowledge"
	"github.com/birdscan/birdscan-go/internal/pipeline"
)

// initDetectionRoutes registers the identification endpoints.
func (c *Controller) initDetectionRoutes() {
	c.Echo.POST("/detect-bird", c.DetectBird)
	c.Echo.OPTIONS("/detect-bird", c.DetectBirdPreflight)
}

// rejectionResponse is returned when the subject filter refuses an image.
type rejectionResponse struct {
	Message         string             `json:"message"`
	DetectedObjects []detection.Object `json:"detected_objects"`
	DetectionType   string             `json:"detection_type"`
	Suggestion      string             `json:"suggestion"`
}

// noBirdResponse is returned when no bird candidate was found.
type noBirdResponse struct {
	Message         string             `json:"message"`
	DetectedObjects []detection.Object `json:"detected_objects"`
}

// identificationResponse is the successful identification body.
type identificationResponse struct {
	Message         string                  `json:"message"`
	Species         string                  `json:"species"`
	ScientificName  string                  `json:"scientific_name"`
	Profile         *knowledge.Profile      `json:"profile"`
	Detections      []filter.BirdCandidate  `json:"detections"`
	DetectedObjects []detection.Object      `json:"detected_objects"`
	Confidence      float64                 `json:"confidence"`
	Alternatives    []knowledge.Alternative `json:"alternatives"`
	LowConfidence   bool                    `json:"low_confidence"`
	Advice          *string                 `json:"advice"`
}

// DetectBirdPreflight answers CORS preflight for the upload endpoint.
func (c *Controller) DetectBirdPreflight(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNoContent)
}

// DetectBird accepts a multipart image upload and runs the identification
// pipeline on it.
func (c *Controller) DetectBird(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return c.HandleError(ctx, err, "No image uploaded", http.StatusBadRequest)
	}
	if fileHeader.Filename == "" {
		return c.HandleError(ctx, nil, "No image file selected", http.StatusBadRequest)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, fmt.Sprintf("Error processing image: %v", err), http.StatusInternalServerError)
	}
	imageData, err := io.ReadAll(src)
	_ = src.Close()
	if err != nil {
		return c.HandleError(ctx, err, fmt.Sprintf("Error processing image: %v", err), http.StatusInternalServerError)
	}

	// Keep a copy of the upload; identification runs on the in-memory bytes.
	storedPath, err := c.Uploads.Save(fileHeader.Filename, imageData)
	if err != nil {
		return c.HandleError(ctx, err, fmt.Sprintf("Error processing image: %v", err), http.StatusInternalServerError)
	}
	c.Debug("Stored upload %s (%d bytes)", storedPath, len(imageData))

	result, err := c.Processor.Process(ctx.Request().Context(), imageData, fileHeader.Filename)
	if err != nil {
		return c.HandleError(ctx, err, fmt.Sprintf("Error processing image: %v", err), http.StatusInternalServerError)
	}

	switch result.Outcome {
	case pipeline.OutcomeRejected:
		return ctx.JSON(http.StatusBadRequest, &rejectionResponse{
			Message:         result.Rejection.Message,
			DetectedObjects: objectsOrEmpty(result.DetectedObjects),
			DetectionType:   result.Rejection.Type,
			Suggestion:      result.Rejection.Suggestion,
		})

	case pipeline.OutcomeNoBird:
		return ctx.JSON(http.StatusOK, &noBirdResponse{
			Message:         result.Message,
			DetectedObjects: objectsOrEmpty(result.DetectedObjects),
		})

	default:
		var advice *string
		if result.Advice != "" {
			advice = &result.Advice
		}
		return ctx.JSON(http.StatusOK, &identificationResponse{
			Message:         result.Message,
			Species:         result.Species,
			ScientificName:  result.ScientificName,
			Profile:         result.Profile,
			Detections:      result.Detections,
			DetectedObjects: objectsOrEmpty(result.DetectedObjects),
			Confidence:      result.Confidence,
			Alternatives:    result.Alternatives,
			LowConfidence:   result.LowConfidence,
			Advice:          advice,
		})
	}
}

// objectsOrEmpty keeps detected_objects an array in JSON, never null.
func objectsOrEmpty(objects []detection.Object) []detection.Object {
	if objects == nil {
		return []detection.Object{}
	}
	return objects
}
