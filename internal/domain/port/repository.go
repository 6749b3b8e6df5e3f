package port

import (
	"context"
	"time"

	"device-inspector/internal/domain/entity"
)

// VerdictRepository хранилище результатов анализа
type VerdictRepository interface {
	// Save сохраняет запись и назначает ей ID
	Save(ctx context.Context, record *entity.AnalysisRecord) error

	// List возвращает записи по фильтру, новые первыми
	List(ctx context.Context, filter entity.ResultFilter) ([]entity.AnalysisRecord, error)

	// Statistics считает PASS/FAIL и гистограмму причин за период
	Statistics(ctx context.Context, from, to time.Time) (entity.Statistics, error)
}

// OperatorRepository интерфейс хранилища операторов
type OperatorRepository interface {
	// Get возвращает оператора по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.Operator, error)

	// Save сохраняет состояние оператора
	Save(ctx context.Context, operator *entity.Operator) error

	// UpdateState обновляет состояние оператора
	UpdateState(ctx context.Context, userID int64, state entity.OperatorState) error
}
