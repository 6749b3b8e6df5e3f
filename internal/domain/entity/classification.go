package entity

// PassFail результат проверки качества
type PassFail string

const (
	Pass PassFail = "Pass"
	Fail PassFail = "Fail"
)

// PassIf переводит bool в Pass/Fail.
func PassIf(ok bool) PassFail {
	if ok {
		return Pass
	}
	return Fail
}

// LanguageCode код языка текстовой области ("ko", "en", ...).
// Пустое значение означает отсутствие языка.
type LanguageCode string

const LanguageNone LanguageCode = ""

// ROIClassification результат классификатора для одной области.
// Для кнопок заполнен Status, для текста - Language.
type ROIClassification struct {
	Class       FeatureClass `json:"class"`
	Box         BoundingBox  `json:"bbox"`
	Probability float64      `json:"probability"`
	Status      PassFail     `json:"status,omitempty"`
	Language    LanguageCode `json:"language,omitempty"`
}
