package storage

import (
	"context"
	"sync"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// MemoryOperatorRepository in-memory хранилище операторов
type MemoryOperatorRepository struct {
	mu        sync.RWMutex
	operators map[int64]*entity.Operator
}

// NewMemoryOperatorRepository создаёт новое in-memory хранилище
func NewMemoryOperatorRepository() *MemoryOperatorRepository {
	return &MemoryOperatorRepository{
		operators: make(map[int64]*entity.Operator),
	}
}

// Get возвращает оператора по ID, создаёт нового если не найден
func (r *MemoryOperatorRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, exists := r.operators[userID]; exists {
		copied := *op
		return &copied, nil
	}

	op := entity.NewOperator(userID, chatID)
	r.operators[userID] = op
	copied := *op
	return &copied, nil
}

// Save сохраняет состояние оператора
func (r *MemoryOperatorRepository) Save(ctx context.Context, op *entity.Operator) error {
	copied := *op

	r.mu.Lock()
	r.operators[op.ID] = &copied
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние оператора
func (r *MemoryOperatorRepository) UpdateState(ctx context.Context, userID int64, state entity.OperatorState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, exists := r.operators[userID]; exists {
		op.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.OperatorRepository = (*MemoryOperatorRepository)(nil)
