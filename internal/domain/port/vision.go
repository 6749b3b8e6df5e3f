package port

import (
	"errors"

	"device-inspector/internal/domain/entity"
)

// ErrROIOutsideImage рамка не пересекается с изображением. Такая область пропускается.
var ErrROIOutsideImage = errors.New("roi is outside the image")

// ImageCropper вырезает область интереса из исходного изображения
type ImageCropper interface {
	// Crop возвращает закодированный фрагмент изображения
	Crop(imageData []byte, box entity.BoundingBox) ([]byte, error)
}

// Annotator рисует детекции поверх изображения
type Annotator interface {
	// Annotate возвращает JPEG с подсветкой детекций
	Annotate(imageData []byte, verdict *entity.Verdict) ([]byte, error)
}

// ImageProber проверяет, что байты являются поддерживаемым изображением
type ImageProber interface {
	// Probe возвращает размеры изображения без полного декодирования
	Probe(imageData []byte) (width, height int, err error)
}
