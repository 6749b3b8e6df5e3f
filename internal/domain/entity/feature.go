package entity

// FeatureState агрегированное состояние признаков одного изображения.
type FeatureState struct {
	Home   bool
	Back   bool
	ID     bool
	Status bool
	Screen bool

	// ButtonStatus худший статус среди всех детекций класса.
	ButtonStatus map[FeatureClass]PassFail
	// Languages языки распознанных текстовых областей в порядке появления.
	Languages []LanguageCode
}

// NewFeatureState создаёт пустое состояние.
func NewFeatureState() FeatureState {
	return FeatureState{ButtonStatus: make(map[FeatureClass]PassFail)}
}

// ButtonPass true только при явном Pass. Отсутствующая запись считается провалом.
func (s FeatureState) ButtonPass(c FeatureClass) bool {
	st, ok := s.ButtonStatus[c]
	return ok && st == Pass
}

func (s FeatureState) TextCount() int {
	return len(s.Languages)
}
