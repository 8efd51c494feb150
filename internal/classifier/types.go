// Package classifier provides the species classifier adapter. The classifier
// backend is an opaque inference service: image crop in, ranked species
// labels out.
package classifier

import (
	"context"
	"time"

	"github.com/birdscan/birdscan-go/internal/imageproc"
)

// Candidate is a ranked species prediction.
type Candidate struct {
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
}

// Classifier classifies a batch of crops into an aggregated ranked candidate list.
type Classifier interface {
	Classify(ctx context.Context, crops []*imageproc.Crop) ([]Candidate, error)
}

// Config holds configuration for the HTTP classifier adapter.
type Config struct {
	Endpoint string        `json:"endpoint"`
	Timeout  time.Duration `json:"timeout"`
	TopK     int           `json:"top_k"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint: "http://localhost:8501",
		Timeout:  30 * time.Second,
		TopK:     5,
	}
}
