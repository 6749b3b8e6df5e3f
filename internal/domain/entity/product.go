package entity

import (
	"errors"
	"fmt"
)

// ButtonType семейство кнопки, парной к Home/Stat.
type ButtonType string

const (
	ButtonBack ButtonType = "Back"
	ButtonID   ButtonType = "ID"
)

func (t ButtonType) Valid() bool {
	return t == ButtonBack || t == ButtonID
}

// ProductSpec строка справочника моделей изделия.
type ProductSpec struct {
	ID         string       `yaml:"id" json:"id"`
	ButtonType ButtonType   `yaml:"button_type" json:"button_type"`
	Language   LanguageCode `yaml:"language,omitempty" json:"language,omitempty"`
}

// ProductTable неизменяемый справочник моделей.
type ProductTable []ProductSpec

// Validate проверяет уникальность идентификаторов и тип кнопки.
// Совпадающие пары (тип, язык) допустимы: движок сообщит о неоднозначности.
func (t ProductTable) Validate() error {
	if len(t) == 0 {
		return errors.New("product table is empty")
	}
	seen := make(map[string]struct{}, len(t))
	for i, p := range t {
		if p.ID == "" {
			return fmt.Errorf("product #%d: empty id", i)
		}
		if !p.ButtonType.Valid() {
			return fmt.Errorf("product %s: unknown button type %q", p.ID, p.ButtonType)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %s: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// DefaultProductTable справочник, используемый без файла products.yaml.
func DefaultProductTable() ProductTable {
	return ProductTable{
		{ID: "DV-200-BK", ButtonType: ButtonBack},
		{ID: "DV-200-BK-JA", ButtonType: ButtonBack, Language: "ja"},
		{ID: "DV-200-ID-KO", ButtonType: ButtonID, Language: "ko"},
		{ID: "DV-200-ID-EN", ButtonType: ButtonID, Language: "en"},
		{ID: "DV-200-ID-ZH", ButtonType: ButtonID, Language: "zh"},
	}
}
