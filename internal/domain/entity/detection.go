package entity

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// FeatureClass семантическая категория детекции
type FeatureClass string

const (
	ClassHome        FeatureClass = "Btn_Home"
	ClassBack        FeatureClass = "Btn_Back"
	ClassID          FeatureClass = "Btn_ID"
	ClassStatus      FeatureClass = "Btn_Stat"
	ClassScreenSmall FeatureClass = "Monitor_Small"
	ClassScreenBig   FeatureClass = "Monitor_Big"
	ClassText        FeatureClass = "Text"
)

var knownClasses = map[FeatureClass]struct{}{
	ClassHome:        {},
	ClassBack:        {},
	ClassID:          {},
	ClassStatus:      {},
	ClassScreenSmall: {},
	ClassScreenBig:   {},
	ClassText:        {},
}

// ParseFeatureClass возвращает класс по метке детектора.
func ParseFeatureClass(label string) (FeatureClass, bool) {
	c := FeatureClass(label)
	_, ok := knownClasses[c]
	return c, ok
}

// Valid сообщает, знает ли движок этот класс.
func (c FeatureClass) Valid() bool {
	_, ok := knownClasses[c]
	return ok
}

// IsButton true для кнопок, которые проверяет классификатор качества.
func (c FeatureClass) IsButton() bool {
	switch c {
	case ClassHome, ClassBack, ClassID, ClassStatus:
		return true
	}
	return false
}

func (c FeatureClass) IsScreen() bool {
	return c == ClassScreenSmall || c == ClassScreenBig
}

// BoundingBox прямоугольник в координатах изображения (x1,y1) - (x2,y2).
// В JSON кодируется массивом [x1, y1, x2, y2].
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

func (b BoundingBox) Width() float64  { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Degenerate true для рамок с нулевой или отрицательной шириной/высотой.
func (b BoundingBox) Degenerate() bool {
	if math.IsNaN(b.X1) || math.IsNaN(b.Y1) || math.IsNaN(b.X2) || math.IsNaN(b.Y2) {
		return true
	}
	return b.Width() <= 0 || b.Height() <= 0
}

// IsZero true, если рамка не задана.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Rect округляет рамку до целочисленного прямоугольника.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X1)), int(math.Floor(b.Y1)),
		int(math.Ceil(b.X2)), int(math.Ceil(b.Y2)),
	)
}

func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		// null: рамка не задана
		*b = BoundingBox{}
		return nil
	}
	if len(raw) != 4 {
		return fmt.Errorf("bbox must have 4 coordinates, got %d", len(raw))
	}
	b.X1, b.Y1, b.X2, b.Y2 = raw[0], raw[1], raw[2], raw[3]
	return nil
}

// BoxFromSlice собирает рамку из [x1, y1, x2, y2].
func BoxFromSlice(v []float64) (BoundingBox, error) {
	if len(v) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox must have 4 coordinates, got %d", len(v))
	}
	return BoundingBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// Detection одна локализованная область, найденная детектором.
type Detection struct {
	Class      FeatureClass `json:"class"`
	Box        BoundingBox  `json:"bbox"`
	Confidence float64      `json:"confidence"`
}
