package classifier

import (
	"image"

	"github.com/birdscan/birdscan-go/internal/imageproc"
)

// Color thresholds for the heuristic fallback, on the 0-255 channel scale.
const (
	dominantChannel  = 150
	recessiveChannel = 100
	darkBrightness   = 100
)

// ColorHeuristic is the last-resort classifier used when the inference backend
// is unavailable. It picks the crop with the largest pixel area, computes mean
// RGB channel values and overall brightness, and maps into one of four
// hardcoded species buckets. Coarse discriminative power only.
func ColorHeuristic(crops []*imageproc.Crop) []Candidate {
	if len(crops) == 0 {
		return nil
	}

	largest := crops[0]
	for _, crop := range crops[1:] {
		if crop.Area() > largest.Area() {
			largest = crop
		}
	}

	r, g, b := meanRGB(largest.Image)
	brightness := (r + g + b) / 3

	switch {
	case r > dominantChannel && g < recessiveChannel && b < recessiveChannel:
		return []Candidate{
			{Species: "Cardinal", Confidence: 0.7},
			{Species: "American Robin", Confidence: 0.6},
		}
	case b > dominantChannel && r < recessiveChannel && g < recessiveChannel:
		return []Candidate{
			{Species: "Blue Jay", Confidence: 0.7},
			{Species: "Eastern Bluebird", Confidence: 0.6},
		}
	case brightness < darkBrightness:
		return []Candidate{
			{Species: "American Crow", Confidence: 0.7},
			{Species: "Common Grackle", Confidence: 0.6},
		}
	default:
		return []Candidate{
			{Species: "House Sparrow", Confidence: 0.4},
			{Species: "American Robin", Confidence: 0.4},
		}
	}
}

// meanRGB computes per-channel means on the 0-255 scale.
func meanRGB(img image.Image) (r, g, b float64) {
	bounds := img.Bounds()
	pixels := float64(bounds.Dx() * bounds.Dy())
	if pixels == 0 {
		return 0, 0, 0
	}

	var sumR, sumG, sumB float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			sumR += float64(pr >> 8)
			sumG += float64(pg >> 8)
			sumB += float64(pb >> 8)
		}
	}

	return sumR / pixels, sumG / pixels, sumB / pixels
}
