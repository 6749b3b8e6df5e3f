package engine

import "device-inspector/internal/domain/entity"

// mergeStatus монотонное слияние: Fail поглощает Pass.
func mergeStatus(prev, next entity.PassFail) entity.PassFail {
	if prev == entity.Fail || next == entity.Fail {
		return entity.Fail
	}
	return entity.Pass
}

// Aggregate сворачивает детекции и классификации в FeatureState.
// Ожидает уже нормализованный вход (см. normalize).
func Aggregate(detections []entity.Detection, classifications []entity.ROIClassification) entity.FeatureState {
	state := entity.NewFeatureState()

	for _, det := range detections {
		switch {
		case det.Class == entity.ClassHome:
			state.Home = true
		case det.Class == entity.ClassBack:
			state.Back = true
		case det.Class == entity.ClassID:
			state.ID = true
		case det.Class == entity.ClassStatus:
			state.Status = true
		case det.Class.IsScreen():
			state.Screen = true
		}
	}

	for _, cls := range classifications {
		switch {
		case cls.Class.IsButton():
			next := cls.Status
			if next != entity.Pass {
				next = entity.Fail
			}
			if prev, ok := state.ButtonStatus[cls.Class]; ok {
				next = mergeStatus(prev, next)
			}
			state.ButtonStatus[cls.Class] = next
		case cls.Class == entity.ClassText:
			state.Languages = append(state.Languages, cls.Language)
		}
	}

	return state
}
