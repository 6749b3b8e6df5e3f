package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func record(name string, status entity.Status, reason string, offset time.Duration) *entity.AnalysisRecord {
	rec := &entity.AnalysisRecord{Filename: name, Status: status, Timestamp: base.Add(offset)}
	if reason != "" {
		rec.Reason = &reason
	}
	return rec
}

func seed(t *testing.T, repo *MemoryVerdictRepository) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range []*entity.AnalysisRecord{
		record("a.jpg", entity.StatusPass, "", 0),
		record("b.jpg", entity.StatusFail, "Home Missing; Back Fail", time.Minute),
		record("c.jpg", entity.StatusFail, "Home Missing", 2*time.Minute),
		record("d.jpg", entity.StatusError, "failed to decode image", 3*time.Minute),
	} {
		require.NoError(t, repo.Save(ctx, rec))
	}
}

func TestMemoryVerdictRepository_SaveAssignsIDs(t *testing.T) {
	repo := NewMemoryVerdictRepository()
	a := record("a.jpg", entity.StatusPass, "", 0)
	b := record("b.jpg", entity.StatusPass, "", 0)
	require.NoError(t, repo.Save(context.Background(), a))
	require.NoError(t, repo.Save(context.Background(), b))
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)
}

func TestMemoryVerdictRepository_List(t *testing.T) {
	repo := NewMemoryVerdictRepository()
	seed(t, repo)
	ctx := context.Background()

	all, err := repo.List(ctx, entity.ResultFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "d.jpg", all[0].Filename)

	fails, err := repo.List(ctx, entity.ResultFilter{Status: entity.StatusFail})
	require.NoError(t, err)
	require.Len(t, fails, 2)

	page, err := repo.List(ctx, entity.ResultFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"c.jpg", "b.jpg"}, []string{page[0].Filename, page[1].Filename})

	empty, err := repo.List(ctx, entity.ResultFilter{Offset: 10})
	require.NoError(t, err)
	require.Empty(t, empty)

	ranged, err := repo.List(ctx, entity.ResultFilter{From: base.Add(30 * time.Second), To: base.Add(2 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
}

func TestMemoryVerdictRepository_Statistics(t *testing.T) {
	repo := NewMemoryVerdictRepository()
	seed(t, repo)

	stats, err := repo.Statistics(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 1, stats.Pass)
	require.Equal(t, 2, stats.Fail)
	require.Equal(t, 25.0, stats.PassRate)
	require.Equal(t, map[string]int{"Home Missing": 2, "Back Fail": 1}, stats.FailReasons)

	stats, err = repo.Statistics(context.Background(), base.Add(time.Hour), time.Time{})
	require.NoError(t, err)
	require.Zero(t, stats.Total)
	require.Zero(t, stats.PassRate)
	require.Empty(t, stats.FailReasons)
}
