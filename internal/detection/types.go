// Package detection provides the object detector adapter and its result types.
// The detector backend is an opaque inference service: image in, labeled
// bounding boxes out.
package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BoundingBox is a detection box in pixel coordinates. It marshals to the wire
// format [x1, y1, x2, y2].
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// Valid reports whether the box has positive area.
func (b BoundingBox) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

// Width returns the box width in pixels.
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

// MarshalJSON encodes the box as a 4-element array.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes the box from a 4-element array.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("bounding box must have 4 elements, got %d", len(coords))
	}
	b.X1, b.Y1, b.X2, b.Y2 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Detection is a single detected object, immutable and scoped to one request.
type Detection struct {
	ClassID    int         `json:"class_id"`
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
}

// Object is the summary form of a detection exposed in API responses.
type Object struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Objects converts detections into their API summary form.
func Objects(detections []Detection) []Object {
	objects := make([]Object, 0, len(detections))
	for i := range detections {
		objects = append(objects, Object{Class: detections[i].Label, Confidence: detections[i].Confidence})
	}
	return objects
}

// Detector runs object detection on an encoded image.
type Detector interface {
	Detect(ctx context.Context, image []byte, filename string) ([]Detection, error)
}

// Config holds configuration for the HTTP detector adapter.
type Config struct {
	Endpoint      string        `json:"endpoint"`
	Timeout       time.Duration `json:"timeout"`
	MinConfidence float64       `json:"min_confidence"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:      "http://localhost:8500",
		Timeout:       30 * time.Second,
		MinConfidence: 0.1,
	}
}
