package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

const jpegQuality = 90

var (
	colorPass   = color.RGBA{G: 200, A: 255}
	colorFail   = color.RGBA{R: 230, A: 255}
	colorScreen = color.RGBA{B: 230, A: 255}
	colorText   = color.RGBA{R: 230, G: 200, A: 255}
)

// Probe читает только заголовок изображения
func (c *Cropper) Probe(imageData []byte) (width, height int, err error) {
	if len(imageData) == 0 {
		return 0, 0, entity.ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", entity.ErrUndecodableImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, entity.ErrEmptyImage
	}
	return cfg.Width, cfg.Height, nil
}

var _ port.ImageProber = (*Cropper)(nil)

// roiRect переводит рамку в пиксели и обрезает по границам изображения.
func roiRect(box entity.BoundingBox, bounds image.Rectangle) (image.Rectangle, error) {
	if box.Degenerate() {
		return image.Rectangle{}, fmt.Errorf("degenerate roi %v", box)
	}
	r := box.Rect().Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: roi %v, image %v", port.ErrROIOutsideImage, box.Rect(), bounds)
	}
	return r, nil
}

// regionColor цвет рамки: кнопки по результату классификатора,
// экран и текст своими цветами.
func regionColor(d entity.Detection, v *entity.Verdict) color.RGBA {
	switch {
	case d.Class.IsScreen():
		return colorScreen
	case d.Class == entity.ClassText:
		return colorText
	}
	if v != nil {
		for _, c := range v.Classifications {
			if c.Class == d.Class && c.Box == d.Box {
				if c.Status == entity.Pass {
					return colorPass
				}
				return colorFail
			}
		}
	}
	return colorFail
}

func regionLabel(d entity.Detection) string {
	return fmt.Sprintf("%s %.2f", d.Class, d.Confidence)
}

func bannerText(v *entity.Verdict) string {
	if v.ProductModel != "" {
		return fmt.Sprintf("%s  %s  %.2f%%", v.Status, v.ProductModel, v.Confidence)
	}
	return fmt.Sprintf("%s  %.2f%%", v.Status, v.Confidence)
}

func bannerColor(v *entity.Verdict) color.RGBA {
	if v.Status == entity.StatusPass {
		return colorPass
	}
	return colorFail
}
