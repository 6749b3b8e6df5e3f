package container

import (
	app "device-inspector/internal/application"
	"device-inspector/internal/domain/engine"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// Models адаптеры моделей и работы с изображением
type Models struct {
	Detector  port.Detector
	Buttons   port.ButtonClassifier
	Languages port.LanguageClassifier
	Cropper   port.ImageCropper
}

type Container struct {
	Engine            *engine.Engine
	OperatorService   *app.OperatorService
	InspectionService *app.InspectionService
}

func New(
	table entity.ProductTable,
	models Models,
	results port.VerdictRepository,
	operators port.OperatorRepository,
	opts ...app.Option,
) *Container {
	eng := engine.New(table)
	roi := engine.NewROIAdapter(models.Cropper, models.Buttons, models.Languages)

	return &Container{
		Engine:            eng,
		OperatorService:   app.NewOperatorService(operators),
		InspectionService: app.NewInspectionService(eng, models.Detector, roi, results, opts...),
	}
}
