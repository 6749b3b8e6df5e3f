package engine

import (
	"fmt"

	"device-inspector/internal/domain/entity"
)

// Rule одно независимое правило приёмки.
// Check возвращает причину провала и false, если правило нарушено.
type Rule interface {
	// ID уникальный идентификатор правила
	ID() string

	Check(state entity.FeatureState, res Resolution) (reason string, ok bool)
}

type ruleFunc struct {
	id    string
	check func(entity.FeatureState, Resolution) (string, bool)
}

func (r ruleFunc) ID() string { return r.id }

func (r ruleFunc) Check(state entity.FeatureState, res Resolution) (string, bool) {
	return r.check(state, res)
}

// displayName имена признаков в текстах причин.
var displayName = map[entity.FeatureClass]string{
	entity.ClassHome:   "Home",
	entity.ClassBack:   "Back",
	entity.ClassID:     "ID",
	entity.ClassStatus: "Stat",
}

func presenceRule(id, name string, present func(entity.FeatureState) bool) Rule {
	return ruleFunc{id: id, check: func(s entity.FeatureState, _ Resolution) (string, bool) {
		if present(s) {
			return "", true
		}
		return name + " Missing", false
	}}
}

// selectedButton возвращает класс единственной кнопки Back/ID.
func selectedButton(s entity.FeatureState) (entity.FeatureClass, bool) {
	switch {
	case s.Back && !s.ID:
		return entity.ClassBack, true
	case s.ID && !s.Back:
		return entity.ClassID, true
	}
	return "", false
}

func qualityReason(s entity.FeatureState, c entity.FeatureClass) (string, bool) {
	st, ok := s.ButtonStatus[c]
	switch {
	case !ok:
		return displayName[c] + " Not Classified", false
	case st != entity.Pass:
		return displayName[c] + " Fail", false
	}
	return "", true
}

// DefaultRules набор правил в фиксированном порядке вывода причин.
func DefaultRules() []Rule {
	return []Rule{
		presenceRule("presence.home", "Home", func(s entity.FeatureState) bool { return s.Home }),
		presenceRule("presence.status", "Stat", func(s entity.FeatureState) bool { return s.Status }),
		presenceRule("presence.screen", "Monitor", func(s entity.FeatureState) bool { return s.Screen }),

		ruleFunc{id: "exclusion.back_id", check: func(s entity.FeatureState, _ Resolution) (string, bool) {
			switch {
			case s.Back && s.ID:
				return "Back and ID Both Present", false
			case !s.Back && !s.ID:
				return "Back/ID Missing", false
			}
			return "", true
		}},

		ruleFunc{id: "quality.button", check: func(s entity.FeatureState, _ Resolution) (string, bool) {
			c, ok := selectedButton(s)
			if !ok {
				// нарушение уже сообщено правилом исключения
				return "", true
			}
			return qualityReason(s, c)
		}},

		ruleFunc{id: "quality.status", check: func(s entity.FeatureState, _ Resolution) (string, bool) {
			return qualityReason(s, entity.ClassStatus)
		}},

		ruleFunc{id: "cardinality.text", check: func(s entity.FeatureState, _ Resolution) (string, bool) {
			n := s.TextCount()
			if n == 1 || n == 2 {
				return fmt.Sprintf("Text Count Invalid (N=%d)", n), false
			}
			return "", true
		}},

		ruleFunc{id: "identity.model", check: func(_ entity.FeatureState, res Resolution) (string, bool) {
			if res.OK() {
				return "", true
			}
			return res.Reason, false
		}},
	}
}

// Evaluator применяет все правила, не останавливаясь на первом нарушении.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator без аргументов использует DefaultRules.
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{rules: rules}
}

// Violation нарушенное правило и текст причины
type Violation struct {
	Rule   string
	Reason string
}

// Violations возвращает нарушения в порядке правил.
func (e *Evaluator) Violations(state entity.FeatureState, res Resolution) []Violation {
	out := []Violation{}
	for _, r := range e.rules {
		if reason, ok := r.Check(state, res); !ok {
			out = append(out, Violation{Rule: r.ID(), Reason: reason})
		}
	}
	return out
}

// Evaluate возвращает причины провала в порядке правил. Пустой срез - PASS.
func (e *Evaluator) Evaluate(state entity.FeatureState, res Resolution) []string {
	violations := e.Violations(state, res)
	reasons := make([]string, 0, len(violations))
	for _, v := range violations {
		reasons = append(reasons, v.Reason)
	}
	return reasons
}
