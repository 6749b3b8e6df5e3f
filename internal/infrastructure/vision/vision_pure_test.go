//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCropper_Crop(t *testing.T) {
	c := NewCropper()
	data := testPNG(t, 100, 80)

	out, err := c.Crop(data, entity.BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 40})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 30, img.Bounds().Dy())

	_, err = c.Crop(data, entity.BoundingBox{X1: 300, Y1: 300, X2: 310, Y2: 310})
	require.ErrorIs(t, err, port.ErrROIOutsideImage)

	_, err = c.Crop([]byte("not an image"), entity.BoundingBox{X1: 1, Y1: 1, X2: 5, Y2: 5})
	require.ErrorIs(t, err, entity.ErrUndecodableImage)

	_, err = c.Crop(nil, entity.BoundingBox{X1: 1, Y1: 1, X2: 5, Y2: 5})
	require.ErrorIs(t, err, entity.ErrEmptyImage)
}

func TestAnnotator_Annotate(t *testing.T) {
	data := testPNG(t, 120, 90)
	v := &entity.Verdict{
		Status:     entity.StatusFail,
		Confidence: 71.25,
		Detections: []entity.Detection{
			{Class: entity.ClassHome, Box: entity.BoundingBox{X1: 10, Y1: 20, X2: 60, Y2: 70}, Confidence: 0.9},
			{Class: entity.ClassText, Box: entity.BoundingBox{X1: 500, Y1: 500, X2: 510, Y2: 510}, Confidence: 0.4},
		},
	}

	a := NewAnnotator()
	a.Thickness = 4
	out, err := a.Annotate(data, v)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 120, 90), img.Bounds())

	// левая грань рамки Home окрашена цветом провала
	r, g, _, _ := img.At(11, 45).RGBA()
	require.Greater(t, r>>8, uint32(150))
	require.Less(t, g>>8, uint32(100))
}
