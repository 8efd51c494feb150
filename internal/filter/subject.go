// Package filter decides whether an uploaded image is usable for bird
// identification. It contains the subject filter, which rejects photos of
// people, other animals, or indoor scenes, and the bird presence resolver.
package filter

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

// Rejection types reported to the client.
const (
	RejectionHuman  = "human"
	RejectionAnimal = "other-animal"
	RejectionObject = "object"
)

// Rejection explains why an image was rejected before classification.
type Rejection struct {
	Type       string `json:"detection_type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Thresholds holds the subject filter confidence thresholds. All comparisons
// are strict: a detection at exactly the threshold does not trigger rejection.
type Thresholds struct {
	Person         float64
	Animal         float64
	Indoor         float64
	IndoorMinCount int
}

// DefaultThresholds returns the thresholds tuned for the COCO detector backend.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Person:         0.3,
		Animal:         0.4,
		Indoor:         0.6,
		IndoorMinCount: 2,
	}
}

// subjectPolicy checks one rejection condition. birdPresent reports whether a
// primary-tier bird candidate exists.
type subjectPolicy func(detections []detection.Detection, birdPresent bool) *Rejection

// SubjectFilter applies an ordered list of rejection policies; the first match
// wins. It is a pure function over the detections, no shared state.
type SubjectFilter struct {
	labels     *vocab.Labels
	thresholds Thresholds
	policies   []subjectPolicy
	titleCaser cases.Caser
}

// NewSubjectFilter creates a subject filter over the given vocabulary.
func NewSubjectFilter(labels *vocab.Labels, thresholds Thresholds) *SubjectFilter {
	f := &SubjectFilter{
		labels:     labels,
		thresholds: thresholds,
		titleCaser: cases.Title(language.English),
	}
	// Policy order is the rejection precedence
	f.policies = []subjectPolicy{
		f.rejectHuman,
		f.rejectAnimal,
		f.rejectIndoor,
	}
	return f
}

// Evaluate runs the rejection policies in order. A nil result means the image
// is accepted for the bird-presence check.
func (f *SubjectFilter) Evaluate(detections []detection.Detection, birdPresent bool) *Rejection {
	for _, policy := range f.policies {
		if rejection := policy(detections, birdPresent); rejection != nil {
			return rejection
		}
	}
	return nil
}

// rejectHuman rejects images containing a person. The message differs when a
// bird was also detected, so the user knows the bird was seen but not usable.
func (f *SubjectFilter) rejectHuman(detections []detection.Detection, birdPresent bool) *Rejection {
	found := false
	for i := range detections {
		if f.labels.Category(detections[i].Label) == vocab.CategoryHuman &&
			detections[i].Confidence > f.thresholds.Person {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	message := "Human photo detected. Please upload a clear photo of a bird only."
	if birdPresent {
		message = "Human photo with bird in background detected. Please upload a photo where the bird is the main subject, not the person."
	}

	return &Rejection{
		Type:       RejectionHuman,
		Message:    message,
		Suggestion: "For best results, upload photos where birds are the main subject without people in the frame.",
	}
}

// rejectAnimal rejects images dominated by a non-bird animal.
func (f *SubjectFilter) rejectAnimal(detections []detection.Detection, _ bool) *Rejection {
	var best *detection.Detection
	for i := range detections {
		if f.labels.Category(detections[i].Label) != vocab.CategoryAnimal {
			continue
		}
		if detections[i].Confidence <= f.thresholds.Animal {
			continue
		}
		if best == nil || detections[i].Confidence > best.Confidence {
			best = &detections[i]
		}
	}
	if best == nil {
		return nil
	}

	return &Rejection{
		Type:       RejectionAnimal,
		Message:    fmt.Sprintf("%s photo detected. Please upload a photo of a bird.", f.titleCaser.String(best.Label)),
		Suggestion: fmt.Sprintf("This appears to be a %s. Our system is specialized for bird identification only.", best.Label),
	}
}

// rejectIndoor rejects birdless images with multiple confident indoor objects.
func (f *SubjectFilter) rejectIndoor(detections []detection.Detection, birdPresent bool) *Rejection {
	if birdPresent {
		return nil
	}

	count := 0
	for i := range detections {
		if f.labels.Category(detections[i].Label) == vocab.CategoryIndoor &&
			detections[i].Confidence > f.thresholds.Indoor {
			count++
		}
	}
	if count < f.thresholds.IndoorMinCount {
		return nil
	}

	return &Rejection{
		Type:       RejectionObject,
		Message:    "Indoor photo detected without birds. Please upload an outdoor bird photo.",
		Suggestion: "For best bird detection results, use outdoor photos with natural backgrounds.",
	}
}
