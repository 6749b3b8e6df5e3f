package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

func TestFormatVerdict_Pass(t *testing.T) {
	v := entity.Verdict{
		Status:       entity.StatusPass,
		Confidence:   93.5,
		ProductModel: "DV-200-ID-KO",
		Language:     "ko",
		Breakdown:    entity.FeatureBreakdown{Home: entity.Pass, IDBack: entity.Pass, Status: entity.Pass, Screen: entity.Pass},
		TextCount:    2,
	}
	r := entity.NewAnalysisRecord("unit.jpg", v, time.Now())
	r.ID = 7

	text := formatVerdict(r)
	require.True(t, strings.HasPrefix(text, "✅ PASS (#7)\n"))
	require.Contains(t, text, "Модель: DV-200-ID-KO")
	require.Contains(t, text, "Язык маркировки: ko")
	require.Contains(t, text, "Уверенность: 93.50%")
	require.Contains(t, text, "Текстовых областей: 2")
	require.NotContains(t, text, "Причины")
}

func TestFormatVerdict_Fail(t *testing.T) {
	v := entity.Verdict{
		Status:    entity.StatusFail,
		Reasons:   []string{"Home Missing", "Back/ID Missing"},
		Breakdown: entity.FeatureBreakdown{Home: entity.Fail, IDBack: entity.Fail, Status: entity.Pass, Screen: entity.Pass},
	}
	r := entity.NewAnalysisRecord("unit.jpg", v, time.Now())

	text := formatVerdict(r)
	require.True(t, strings.HasPrefix(text, "❌ FAIL"))
	require.Contains(t, text, "Модель: не определена")
	require.Contains(t, text, "• Home Missing\n• Back/ID Missing\n")
	require.Contains(t, text, "Home: ❌")
	require.Contains(t, text, "Status: ✅")
	require.NotContains(t, text, "Язык маркировки")
}

func TestFormatStats(t *testing.T) {
	require.Equal(t, "📊 Проверок пока не было.", formatStats(entity.NewStatistics(0, 0, 0, nil)))

	reasons := map[string]int{
		"Home Missing": 3,
		"ID Fail":      5,
		"A":            1,
		"B":            1,
		"C":            1,
		"D":            1,
	}
	text := formatStats(entity.NewStatistics(10, 4, 6, reasons))
	require.Contains(t, text, "Всего: 10")
	require.Contains(t, text, "Процент прохождения: 40.00%")
	require.Contains(t, text, "Частые причины:\n• ID Fail: 5\n• Home Missing: 3\n• A: 1\n• B: 1\n• C: 1")
	require.NotContains(t, text, "D: 1")
}
