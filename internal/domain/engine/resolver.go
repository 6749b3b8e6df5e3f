package engine

import "device-inspector/internal/domain/entity"

// Причины, которые резолвер возвращает вместо модели.
const (
	ReasonBackIDMismatch = "Back/ID Mismatch"
	ReasonUnknownModel   = "UnknownModel"
	ReasonAmbiguousModel = "AmbiguousModel"
)

// Resolution результат определения модели изделия.
type Resolution struct {
	ProductID  string
	ButtonType entity.ButtonType
	Language   entity.LanguageCode
	Reason     string
}

// OK true, если найдена ровно одна модель.
func (r Resolution) OK() bool {
	return r.ProductID != "" && r.Reason == ""
}

// Resolver строгий поиск модели в справочнике, без нечёткого сопоставления.
type Resolver struct {
	table entity.ProductTable
}

func NewResolver(table entity.ProductTable) *Resolver {
	return &Resolver{table: table}
}

// Resolve определяет модель по найденной кнопке и преобладающему языку.
func (r *Resolver) Resolve(foundBack, foundID bool, languages []entity.LanguageCode) Resolution {
	res := Resolution{Language: DominantLanguage(languages)}

	switch {
	case foundBack && !foundID:
		res.ButtonType = entity.ButtonBack
	case foundID && !foundBack:
		res.ButtonType = entity.ButtonID
	default:
		res.Reason = ReasonBackIDMismatch
		return res
	}

	var matches []string
	for _, p := range r.table {
		if p.ButtonType == res.ButtonType && p.Language == res.Language {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		res.Reason = ReasonUnknownModel
	case 1:
		res.ProductID = matches[0]
	default:
		res.Reason = ReasonAmbiguousModel
	}
	return res
}

// DominantLanguage самый частый язык; при равенстве побеждает встреченный первым.
func DominantLanguage(languages []entity.LanguageCode) entity.LanguageCode {
	counts := make(map[entity.LanguageCode]int, len(languages))
	order := make([]entity.LanguageCode, 0, len(languages))
	for _, l := range languages {
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}

	best := entity.LanguageNone
	bestCount := 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}
