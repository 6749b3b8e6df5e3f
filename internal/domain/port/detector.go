package port

import (
	"context"
	"errors"

	"device-inspector/internal/domain/entity"
)

// ErrModelUnavailable модель не загружена или уже остановлена.
// Это ошибка конфигурации процесса, а не конкретного запроса.
var ErrModelUnavailable = errors.New("inference model is not ready")

// Detector интерфейс детектора объектов
type Detector interface {
	// Detect возвращает все детекции на изображении
	Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error)
}

// ButtonClassifier голова классификатора качества кнопок
type ButtonClassifier interface {
	// ClassifyButton возвращает вероятность и признак годности кнопки
	ClassifyButton(ctx context.Context, crop []byte, class entity.FeatureClass) (probability float64, pass bool, err error)
}

// LanguageClassifier голова классификатора языка текстовой области
type LanguageClassifier interface {
	// ClassifyLanguage возвращает вероятность и код языка
	ClassifyLanguage(ctx context.Context, crop []byte) (probability float64, lang entity.LanguageCode, err error)
}
