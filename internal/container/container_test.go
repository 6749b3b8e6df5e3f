package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/infrastructure/storage"
)

func TestNew(t *testing.T) {
	c := New(entity.DefaultProductTable(), Models{}, storage.NewMemoryVerdictRepository(), storage.NewMemoryOperatorRepository())
	require.NotNil(t, c.Engine)
	require.NotNil(t, c.InspectionService)

	op, err := c.OperatorService.BeginCheck(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, op.State)

	v := c.InspectionService.EvaluateDetections(nil, nil)
	require.Equal(t, entity.StatusFail, v.Status)
}
