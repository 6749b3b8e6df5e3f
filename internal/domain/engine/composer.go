package engine

import (
	"math"

	"device-inspector/internal/domain/entity"
)

// Compose собирает итоговый вердикт из причин и агрегированного состояния.
func Compose(
	reasons []string,
	state entity.FeatureState,
	res Resolution,
	detections []entity.Detection,
	classifications []entity.ROIClassification,
) entity.Verdict {
	status := entity.StatusPass
	if len(reasons) > 0 {
		status = entity.StatusFail
	}

	return entity.Verdict{
		Status:          status,
		Reasons:         reasons,
		Confidence:      aggregateConfidence(detections, classifications),
		ProductModel:    res.ProductID,
		Language:        res.Language,
		Breakdown:       breakdown(state, res),
		TextCount:       state.TextCount(),
		Detections:      detections,
		Classifications: classifications,
	}
}

// aggregateConfidence среднее всех уверенностей детектора и вероятностей
// классификатора в шкале 0-100, округлённое до сотых.
func aggregateConfidence(detections []entity.Detection, classifications []entity.ROIClassification) float64 {
	n := len(detections) + len(classifications)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, d := range detections {
		sum += d.Confidence
	}
	for _, c := range classifications {
		sum += c.Probability
	}
	return math.Round(sum/float64(n)*100*100) / 100
}

func breakdown(s entity.FeatureState, res Resolution) entity.FeatureBreakdown {
	idBack := false
	if c, ok := selectedButton(s); ok {
		idBack = s.ButtonPass(c) && res.OK()
	}
	return entity.FeatureBreakdown{
		Home:   entity.PassIf(s.Home && s.ButtonPass(entity.ClassHome)),
		IDBack: entity.PassIf(idBack),
		Status: entity.PassIf(s.Status && s.ButtonPass(entity.ClassStatus)),
		Screen: entity.PassIf(s.Screen),
	}
}
