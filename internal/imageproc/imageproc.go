// Package imageproc handles image decoding and padded crop extraction around
// detected bounding boxes.
package imageproc

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/errors"
)

// Crop is a decoded sub-image with its source box and padding ratio. Owned by
// the current request and discarded after classification.
type Crop struct {
	Image    image.Image
	Box      detection.BoundingBox
	PadRatio float64
}

// Area returns the crop's pixel area.
func (c *Crop) Area() int {
	bounds := c.Image.Bounds()
	return bounds.Dx() * bounds.Dy()
}

// Decode decodes an uploaded image. Unsupported or corrupt data returns an
// image-decode error.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Newf("failed to decode image: %w", err).
			Category(errors.CategoryImageDecode).
			Context("size_bytes", len(data)).
			Component("imageproc").
			Build()
	}
	return img, nil
}

// EncodeJPEG encodes an image as JPEG for transport to the classifier backend.
func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.JPEG); err != nil {
		return nil, errors.Newf("failed to encode crop: %w", err).
			Category(errors.CategoryImageDecode).
			Component("imageproc").
			Build()
	}
	return buf.Bytes(), nil
}

// clip limits v to the range [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CropPadded crops img to box expanded by padRatio of the box's width and
// height on each side, clamped to image bounds. The result is never smaller
// than 1x1.
func CropPadded(img image.Image, box detection.BoundingBox, padRatio float64) *Crop {
	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	px := box.Width() * padRatio
	py := box.Height() * padRatio

	x1 := int(clip(box.X1-px, 0, w-1))
	y1 := int(clip(box.Y1-py, 0, h-1))
	x2 := int(clip(box.X2+px, 1, w))
	y2 := int(clip(box.Y2+py, 1, h))

	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	return &Crop{Image: cropped, Box: box, PadRatio: padRatio}
}

// ExtractCrops produces padded crops for each valid box, in input order,
// capped at maxCrops for latency control. When no box is usable the whole
// image becomes the single crop.
func ExtractCrops(img image.Image, boxes []detection.BoundingBox, padRatio float64, maxCrops int) []*Crop {
	crops := make([]*Crop, 0, min(len(boxes), maxCrops))
	for _, box := range boxes {
		if !box.Valid() {
			continue
		}
		if len(crops) >= maxCrops {
			break
		}
		crops = append(crops, CropPadded(img, box, padRatio))
	}

	if len(crops) == 0 {
		bounds := img.Bounds()
		crops = append(crops, &Crop{
			Image: img,
			Box: detection.BoundingBox{
				X1: 0, Y1: 0,
				X2: float64(bounds.Dx()), Y2: float64(bounds.Dy()),
			},
			PadRatio: 0,
		})
	}

	return crops
}
