package engine

import "device-inspector/internal/domain/entity"

// Engine вычисляет вердикт по готовым выходам детектора и классификатора.
// Не хранит изменяемого состояния и безопасен для параллельного вызова.
type Engine struct {
	resolver  *Resolver
	evaluator *Evaluator
}

// New создаёт движок над справочником моделей и стандартным набором правил.
func New(table entity.ProductTable) *Engine {
	return &Engine{
		resolver:  NewResolver(table),
		evaluator: NewEvaluator(),
	}
}

// Evaluate детерминированно строит вердикт для одного изображения.
func (e *Engine) Evaluate(detections []entity.Detection, classifications []entity.ROIClassification) entity.Verdict {
	dets, cls := normalize(detections, classifications)

	state := Aggregate(dets, cls)
	res := e.resolver.Resolve(state.Back, state.ID, state.Languages)
	violations := e.evaluator.Violations(state, res)
	reasons := make([]string, 0, len(violations))
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		reasons = append(reasons, v.Reason)
		rules = append(rules, v.Rule)
	}

	verdict := Compose(reasons, state, res, dets, cls)
	verdict.Rules = rules
	return verdict
}

// normalize отбрасывает вырожденные рамки и неизвестные классы.
// Классификация без рамки (нулевое значение) сохраняется.
// Такие записи не участвуют ни в одном агрегате, включая уверенность.
func normalize(detections []entity.Detection, classifications []entity.ROIClassification) ([]entity.Detection, []entity.ROIClassification) {
	dets := make([]entity.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Box.Degenerate() || !d.Class.Valid() {
			continue
		}
		dets = append(dets, d)
	}

	cls := make([]entity.ROIClassification, 0, len(classifications))
	for _, c := range classifications {
		if !c.Box.IsZero() && c.Box.Degenerate() {
			continue
		}
		if !c.Class.IsButton() && c.Class != entity.ClassText {
			continue
		}
		cls = append(cls, c)
	}
	return dets, cls
}
