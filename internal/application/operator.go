package app

import (
	"context"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// OperatorService состояние диалога оператора с ботом
type OperatorService struct {
	repo port.OperatorRepository
}

func NewOperatorService(repo port.OperatorRepository) *OperatorService {
	return &OperatorService{repo: repo}
}

func (s *OperatorService) Get(ctx context.Context, userID, chatID int64) (*entity.Operator, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *OperatorService) SetState(ctx context.Context, userID, chatID int64, state entity.OperatorState) (*entity.Operator, error) {
	op, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	op.SetState(state)
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}

	return op, nil
}

func (s *OperatorService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.Operator, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *OperatorService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Operator, error) {
	return s.SetState(ctx, userID, chatID, entity.StateIdle)
}

// Finish возвращает оператора в меню и запоминает последний результат.
func (s *OperatorService) Finish(ctx context.Context, userID, chatID, recordID int64) (*entity.Operator, error) {
	op, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	op.SetState(entity.StateIdle)
	if recordID > 0 {
		op.LastRecordID = recordID
	}
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}
