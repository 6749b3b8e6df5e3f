package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

func TestMemoryOperatorRepository(t *testing.T) {
	repo := NewMemoryOperatorRepository()
	ctx := context.Background()

	op, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, op.State)
	require.Equal(t, int64(10), op.ChatID)

	op.SetState(entity.StateAwaitingPhoto)
	op.LastRecordID = 42
	require.NoError(t, repo.Save(ctx, op))

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, got.State)
	require.Equal(t, int64(42), got.LastRecordID)

	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateProcessing))
	got, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, got.State)

	// неизвестный оператор не создаётся
	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateProcessing))
	got, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, got.State)
}
