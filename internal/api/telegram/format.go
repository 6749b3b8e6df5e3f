package telegram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"device-inspector/internal/domain/entity"
)

// maxReasons сколько частых причин показывать в /stats
const maxReasons = 5

var zeroTime time.Time

func formatVerdict(r *entity.AnalysisRecord) string {
	var sb strings.Builder

	if r.Status == entity.StatusPass {
		sb.WriteString("✅ PASS")
	} else {
		sb.WriteString("❌ " + string(r.Status))
	}
	fmt.Fprintf(&sb, " (#%d)\n", r.ID)

	model := "не определена"
	if r.Details.ProductModel != nil {
		model = *r.Details.ProductModel
	}
	fmt.Fprintf(&sb, "Модель: %s\n", model)
	if r.Details.Language != nil {
		fmt.Fprintf(&sb, "Язык маркировки: %s\n", *r.Details.Language)
	}
	fmt.Fprintf(&sb, "Уверенность: %.2f%%\n", r.Confidence)

	if r.Reason != nil {
		sb.WriteString("\nПричины:\n")
		for _, reason := range strings.Split(*r.Reason, "; ") {
			sb.WriteString("• " + reason + "\n")
		}
	}

	d := r.Details
	sb.WriteString("\nПроверки:\n")
	fmt.Fprintf(&sb, "Home: %s\n", passMark(d.HomeStatus))
	fmt.Fprintf(&sb, "Back/ID: %s\n", passMark(d.IDBackStatus))
	fmt.Fprintf(&sb, "Status: %s\n", passMark(d.StatusStatus))
	fmt.Fprintf(&sb, "Screen: %s\n", passMark(d.ScreenStatus))
	fmt.Fprintf(&sb, "Текстовых областей: %d", d.TextCount)

	return sb.String()
}

func passMark(p entity.PassFail) string {
	if p == entity.Pass {
		return "✅"
	}
	return "❌"
}

func formatStats(s entity.Statistics) string {
	if s.Total == 0 {
		return "📊 Проверок пока не было."
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика проверок\n")
	fmt.Fprintf(&sb, "Всего: %d\n", s.Total)
	fmt.Fprintf(&sb, "PASS: %d\n", s.Pass)
	fmt.Fprintf(&sb, "FAIL: %d\n", s.Fail)
	fmt.Fprintf(&sb, "Процент прохождения: %.2f%%", s.PassRate)

	if len(s.FailReasons) == 0 {
		return sb.String()
	}

	type reasonCount struct {
		reason string
		count  int
	}
	reasons := make([]reasonCount, 0, len(s.FailReasons))
	for r, c := range s.FailReasons {
		reasons = append(reasons, reasonCount{r, c})
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].count != reasons[j].count {
			return reasons[i].count > reasons[j].count
		}
		return reasons[i].reason < reasons[j].reason
	})
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	sb.WriteString("\n\nЧастые причины:")
	for _, r := range reasons {
		fmt.Fprintf(&sb, "\n• %s: %d", r.reason, r.count)
	}
	return sb.String()
}
