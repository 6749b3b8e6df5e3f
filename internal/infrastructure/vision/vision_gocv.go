//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// Cropper вырезает ROI средствами OpenCV
type Cropper struct{}

func NewCropper() *Cropper { return &Cropper{} }

// Crop возвращает JPEG с областью рамки
func (c *Cropper) Crop(imageData []byte, box entity.BoundingBox) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	rect, err := roiRect(box, image.Rect(0, 0, mat.Cols(), mat.Rows()))
	if err != nil {
		return nil, err
	}

	region := mat.Region(rect)
	defer region.Close()

	return encodeJPEG(region)
}

// Annotator рисует детекции и итоговый статус через OpenCV
type Annotator struct {
	Thickness int
}

func NewAnnotator() *Annotator { return &Annotator{Thickness: 2} }

// Annotate рисует рамки детекций и строку со статусом
func (a *Annotator) Annotate(imageData []byte, verdict *entity.Verdict) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, d := range verdict.Detections {
		rect := d.Box.Rect()
		clr := regionColor(d, verdict)
		gocv.Rectangle(&mat, rect, clr, a.Thickness)
		gocv.PutText(&mat, regionLabel(d), image.Pt(rect.Min.X, maxInt(rect.Min.Y-4, 12)),
			gocv.FontHersheySimplex, 0.45, clr, 1)
	}
	gocv.PutText(&mat, bannerText(verdict), image.Pt(8, 24), gocv.FontHersheySimplex, 0.7, bannerColor(verdict), 2)

	return encodeJPEG(mat)
}

func encodeJPEG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{int(gocv.IMWriteJpegQuality), jpegQuality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.NewMat(), entity.ErrEmptyImage
	}
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), entity.ErrUndecodableImage
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
