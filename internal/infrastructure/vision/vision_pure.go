//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// Cropper вырезает ROI без OpenCV
type Cropper struct{}

func NewCropper() *Cropper { return &Cropper{} }

// Crop возвращает JPEG с областью рамки
func (c *Cropper) Crop(imageData []byte, box entity.BoundingBox) ([]byte, error) {
	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	rect, err := roiRect(box, img.Bounds())
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return encodeJPEG(dst)
}

// Annotator рисует детекции и итоговый статус без OpenCV
type Annotator struct {
	Thickness int
}

func NewAnnotator() *Annotator { return &Annotator{Thickness: 2} }

// Annotate рисует рамки детекций и строку со статусом
func (a *Annotator) Annotate(imageData []byte, verdict *entity.Verdict) ([]byte, error) {
	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(img.Bounds())
	draw.Copy(canvas, canvas.Bounds().Min, img, img.Bounds(), draw.Src, nil)

	for _, d := range verdict.Detections {
		rect := d.Box.Rect().Intersect(canvas.Bounds())
		if rect.Empty() {
			continue
		}
		clr := regionColor(d, verdict)
		strokeRect(canvas, rect, clr, a.Thickness)
		drawLabel(canvas, regionLabel(d), rect.Min.X, maxInt(rect.Min.Y-3, 12), clr)
	}
	drawLabel(canvas, bannerText(verdict), canvas.Bounds().Min.X+6, canvas.Bounds().Min.Y+16, bannerColor(verdict))

	return encodeJPEG(canvas)
}

func decodeImage(imageData []byte) (image.Image, error) {
	if len(imageData) == 0 {
		return nil, entity.ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUndecodableImage, err)
	}
	return img, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func strokeRect(dst *image.RGBA, r image.Rectangle, clr color.RGBA, thickness int) {
	src := image.NewUniform(clr)
	for i := 0; i < thickness; i++ {
		edges := []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y+i, r.Max.X, r.Min.Y+i+1),
			image.Rect(r.Min.X, r.Max.Y-i-1, r.Max.X, r.Max.Y-i),
			image.Rect(r.Min.X+i, r.Min.Y, r.Min.X+i+1, r.Max.Y),
			image.Rect(r.Max.X-i-1, r.Min.Y, r.Max.X-i, r.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
		}
	}
}

func drawLabel(dst *image.RGBA, text string, x, y int, clr color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var (
	_ port.ImageCropper = (*Cropper)(nil)
	_ port.Annotator    = (*Annotator)(nil)
)
