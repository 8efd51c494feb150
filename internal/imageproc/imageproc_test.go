package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/errors"
)

// testImage creates a solid-color image of the given size.
func testImage(t *testing.T, width, height int, fill color.Color) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

// encodePNG encodes an image for decode tests.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, testImage(t, 40, 30, color.White))

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestDecodeCorruptData(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("this is not an image"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageDecode))
}

func TestEncodeJPEG(t *testing.T) {
	t.Parallel()

	data, err := EncodeJPEG(testImage(t, 20, 20, color.White))
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// JPEG magic bytes
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}

func TestCropPaddedExpandsBox(t *testing.T) {
	t.Parallel()

	img := testImage(t, 200, 200, color.White)
	box := detection.BoundingBox{X1: 50, Y1: 50, X2: 150, Y2: 150}

	crop := CropPadded(img, box, 0.15)

	// 100px box padded by 15% on each side gives 130px
	assert.Equal(t, 130, crop.Image.Bounds().Dx())
	assert.Equal(t, 130, crop.Image.Bounds().Dy())
	assert.Equal(t, box, crop.Box)
}

func TestCropPaddedClampsToImageBounds(t *testing.T) {
	t.Parallel()

	img := testImage(t, 100, 100, color.White)
	box := detection.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}

	crop := CropPadded(img, box, 0.15)

	assert.Equal(t, 100, crop.Image.Bounds().Dx())
	assert.Equal(t, 100, crop.Image.Bounds().Dy())
}

func TestCropPaddedDegenerateBox(t *testing.T) {
	t.Parallel()

	img := testImage(t, 100, 100, color.White)
	box := detection.BoundingBox{X1: 99.9, Y1: 99.9, X2: 100, Y2: 100}

	crop := CropPadded(img, box, 0)

	// Never smaller than 1x1
	assert.GreaterOrEqual(t, crop.Image.Bounds().Dx(), 1)
	assert.GreaterOrEqual(t, crop.Image.Bounds().Dy(), 1)
}

func TestExtractCropsCapsCount(t *testing.T) {
	t.Parallel()

	img := testImage(t, 100, 100, color.White)
	boxes := make([]detection.BoundingBox, 10)
	for i := range boxes {
		boxes[i] = detection.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}
	}

	crops := ExtractCrops(img, boxes, 0.15, 6)
	assert.Len(t, crops, 6)
}

func TestExtractCropsSkipsInvalidBoxes(t *testing.T) {
	t.Parallel()

	img := testImage(t, 100, 100, color.White)
	boxes := []detection.BoundingBox{
		{X1: 50, Y1: 50, X2: 40, Y2: 40}, // inverted
		{X1: 10, Y1: 10, X2: 30, Y2: 30},
	}

	crops := ExtractCrops(img, boxes, 0, 6)
	require.Len(t, crops, 1)
	assert.Equal(t, boxes[1], crops[0].Box)
}

func TestExtractCropsWholeImageFallback(t *testing.T) {
	t.Parallel()

	img := testImage(t, 80, 60, color.White)

	crops := ExtractCrops(img, nil, 0.15, 6)
	require.Len(t, crops, 1)
	assert.Equal(t, 80, crops[0].Image.Bounds().Dx())
	assert.Equal(t, 60, crops[0].Image.Bounds().Dy())
}

func TestCropArea(t *testing.T) {
	t.Parallel()

	crop := &Crop{Image: testImage(t, 8, 5, color.White)}
	assert.Equal(t, 40, crop.Area())
}
