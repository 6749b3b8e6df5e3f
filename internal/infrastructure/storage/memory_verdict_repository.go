package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// MemoryVerdictRepository in-memory хранилище результатов анализа
type MemoryVerdictRepository struct {
	mu      sync.RWMutex
	records []entity.AnalysisRecord
	nextID  int64
}

// NewMemoryVerdictRepository создаёт пустое хранилище
func NewMemoryVerdictRepository() *MemoryVerdictRepository {
	return &MemoryVerdictRepository{nextID: 1}
}

// Save сохраняет копию записи и назначает ей ID
func (r *MemoryVerdictRepository) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, *record)
	return nil
}

// List возвращает записи по фильтру, новые первыми
func (r *MemoryVerdictRepository) List(ctx context.Context, filter entity.ResultFilter) ([]entity.AnalysisRecord, error) {
	r.mu.RLock()
	out := make([]entity.AnalysisRecord, 0, len(r.records))
	for _, rec := range r.records {
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []entity.AnalysisRecord{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Statistics считает сводку за период. Нулевые границы не ограничивают.
func (r *MemoryVerdictRepository) Statistics(ctx context.Context, from, to time.Time) (entity.Statistics, error) {
	filter := entity.ResultFilter{From: from, To: to}
	var total, pass, fail int
	reasons := make(map[string]int)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if !filter.Match(rec) {
			continue
		}
		total++
		switch rec.Status {
		case entity.StatusPass:
			pass++
		case entity.StatusFail:
			fail++
			countReasons(reasons, rec.ReasonText())
		}
	}
	return entity.NewStatistics(total, pass, fail, reasons), nil
}

var _ port.VerdictRepository = (*MemoryVerdictRepository)(nil)
