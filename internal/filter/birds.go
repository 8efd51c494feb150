package filter

import (
	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

// BirdCandidate is a bird sighting accepted for cropping and classification.
// DetectedAs records the original detector label when the candidate came from
// a keyword or fallback tier rather than the bird class itself.
type BirdCandidate struct {
	Confidence float64               `json:"confidence"`
	Box        detection.BoundingBox `json:"bbox"`
	DetectedAs string                `json:"detected_as,omitempty"`
	Fallback   bool                  `json:"fallback,omitempty"`
}

// Resolver finds bird candidates among raw detections. Resolution runs in
// tiers: the detector's bird class first, then bird-adjacent label keywords,
// then a single high-confidence detection of any class. Later tiers only run
// when earlier tiers found nothing.
type Resolver struct {
	labels        *vocab.Labels
	minConfidence float64
	fallbackMin   float64
}

// NewResolver creates a bird resolver over the given vocabulary.
// minConfidence gates the primary bird-class tier; fallbackMin gates the
// last-resort any-class tier.
func NewResolver(labels *vocab.Labels, minConfidence, fallbackMin float64) *Resolver {
	return &Resolver{
		labels:        labels,
		minConfidence: minConfidence,
		fallbackMin:   fallbackMin,
	}
}

// Primary returns detections of the detector's bird class above the minimum
// confidence, in detector order. These carry real bounding boxes.
func (r *Resolver) Primary(detections []detection.Detection) []BirdCandidate {
	var candidates []BirdCandidate
	for i := range detections {
		d := &detections[i]
		if d.ClassID != r.labels.BirdClass() {
			continue
		}
		if d.Confidence <= r.minConfidence {
			continue
		}
		candidates = append(candidates, BirdCandidate{
			Confidence: d.Confidence,
			Box:        d.Box,
		})
	}
	return candidates
}

// birdTier produces candidates from the raw detections; frame is the
// full-image box used when a tier cannot localize the bird.
type birdTier func(detections []detection.Detection, frame detection.BoundingBox) []BirdCandidate

// Secondary runs the keyword and fallback tiers, in that order, and returns
// the first tier's candidates. Call it only when Primary found nothing.
// Secondary candidates use the full frame as their box since the matched
// label's localization is not trusted.
func (r *Resolver) Secondary(detections []detection.Detection, frame detection.BoundingBox) []BirdCandidate {
	tiers := []birdTier{
		r.keywordTier,
		r.highConfidenceTier,
	}
	for _, tier := range tiers {
		if candidates := tier(detections, frame); len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// keywordTier matches detector labels against the bird-adjacent keyword list.
// Only the first match is used; multiple keyword hits in one frame are almost
// always the same animal.
func (r *Resolver) keywordTier(detections []detection.Detection, frame detection.BoundingBox) []BirdCandidate {
	for i := range detections {
		d := &detections[i]
		if !r.labels.MatchesBirdKeyword(d.Label) {
			continue
		}
		return []BirdCandidate{{
			Confidence: d.Confidence,
			Box:        frame,
			DetectedAs: d.Label,
		}}
	}
	return nil
}

// highConfidenceTier assumes the single most confident detection is the bird,
// whatever the detector called it. Small or unusual birds are routinely
// mislabeled by general-purpose detectors, so a strong detection of anything
// is worth a classification attempt.
func (r *Resolver) highConfidenceTier(detections []detection.Detection, frame detection.BoundingBox) []BirdCandidate {
	var best *detection.Detection
	for i := range detections {
		if best == nil || detections[i].Confidence > best.Confidence {
			best = &detections[i]
		}
	}
	if best == nil || best.Confidence <= r.fallbackMin {
		return nil
	}
	return []BirdCandidate{{
		Confidence: best.Confidence,
		Box:        frame,
		DetectedAs: best.Label,
		Fallback:   true,
	}}
}
