package entity

import (
	"math"
	"time"
)

// Statistics сводка по сохранённым результатам.
type Statistics struct {
	Total       int            `json:"total"`
	Pass        int            `json:"pass"`
	Fail        int            `json:"fail"`
	PassRate    float64        `json:"pass_rate"`
	FailReasons map[string]int `json:"fail_reasons"`
}

// NewStatistics считает процент прохождения с округлением до сотых.
func NewStatistics(total, pass, fail int, reasons map[string]int) Statistics {
	if reasons == nil {
		reasons = map[string]int{}
	}
	var rate float64
	if total > 0 {
		rate = math.Round(float64(pass)/float64(total)*100*100) / 100
	}
	return Statistics{
		Total:       total,
		Pass:        pass,
		Fail:        fail,
		PassRate:    rate,
		FailReasons: reasons,
	}
}

// ResultFilter фильтр выборки результатов. Нулевые поля не ограничивают.
type ResultFilter struct {
	Status Status
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// Match проверяет запись без учёта Limit/Offset.
func (f ResultFilter) Match(r AnalysisRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && r.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Timestamp.After(f.To) {
		return false
	}
	return true
}

// BatchProgress прогресс последнего пакетного анализа.
type BatchProgress struct {
	BatchID   string `json:"batch_id"`
	Total     int    `json:"total_count"`
	Completed int    `json:"completed_count"`
	Running   bool   `json:"is_running"`
}
