package engine

import (
	"context"
	"errors"
	"fmt"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// ROIAdapter вызывает классификатор для каждой кнопки и текстовой области
// и приводит ответ к единому виду ROIClassification.
type ROIAdapter struct {
	cropper   port.ImageCropper
	buttons   port.ButtonClassifier
	languages port.LanguageClassifier
}

// NewROIAdapter создаёт адаптер над двумя головами классификатора.
func NewROIAdapter(cropper port.ImageCropper, buttons port.ButtonClassifier, languages port.LanguageClassifier) *ROIAdapter {
	return &ROIAdapter{cropper: cropper, buttons: buttons, languages: languages}
}

// Classify классифицирует все подходящие детекции в исходном порядке.
// Вырожденные рамки, рамки вне изображения и экраны пропускаются без ошибки.
func (a *ROIAdapter) Classify(ctx context.Context, imageData []byte, detections []entity.Detection) ([]entity.ROIClassification, error) {
	out := make([]entity.ROIClassification, 0, len(detections))
	for _, det := range detections {
		if det.Box.Degenerate() {
			continue
		}
		if !det.Class.IsButton() && det.Class != entity.ClassText {
			continue
		}
		crop, err := a.cropper.Crop(imageData, det.Box)
		if errors.Is(err, port.ErrROIOutsideImage) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("crop %s: %w", det.Class, err)
		}
		cls, err := a.classifyCrop(ctx, det, crop)
		if err != nil {
			return nil, err
		}
		out = append(out, cls)
	}
	return out, nil
}

func (a *ROIAdapter) classifyCrop(ctx context.Context, det entity.Detection, crop []byte) (entity.ROIClassification, error) {
	if det.Class == entity.ClassText {
		prob, lang, err := a.languages.ClassifyLanguage(ctx, crop)
		if err != nil {
			return entity.ROIClassification{}, fmt.Errorf("classify text: %w", err)
		}
		return entity.ROIClassification{
			Class:       entity.ClassText,
			Box:         det.Box,
			Probability: prob,
			Language:    lang,
		}, nil
	}

	prob, pass, err := a.buttons.ClassifyButton(ctx, crop, det.Class)
	if err != nil {
		return entity.ROIClassification{}, fmt.Errorf("classify %s: %w", det.Class, err)
	}
	return entity.ROIClassification{
		Class:       det.Class,
		Box:         det.Box,
		Probability: prob,
		Status:      entity.PassIf(pass),
	}, nil
}
