package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(entity.ResultFilter{})
	require.Equal(t, "SELECT id, filename, status, reason, confidence, details, timestamp FROM analysis_results ORDER BY timestamp DESC, id DESC", query)
	require.Empty(t, args)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args = buildListQuery(entity.ResultFilter{Status: entity.StatusFail, From: from, Limit: 20, Offset: 40})
	require.Contains(t, query, " WHERE status = ? AND timestamp >= ? ORDER BY")
	require.Contains(t, query, "LIMIT ? OFFSET ?")
	require.Equal(t, []any{"FAIL", from, 20, 40}, args)

	query, args = buildListQuery(entity.ResultFilter{Offset: 5})
	require.Contains(t, query, "OFFSET ?")
	require.Equal(t, []any{5}, args)
}

func TestRangeClause(t *testing.T) {
	where, args := rangeClause(entity.ResultFilter{})
	require.Empty(t, where)
	require.Nil(t, args)

	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	where, args = rangeClause(entity.ResultFilter{To: to})
	require.Equal(t, " WHERE timestamp <= ?", where)
	require.Equal(t, []any{to}, args)
}

func TestCountReasons(t *testing.T) {
	hist := map[string]int{}
	countReasons(hist, "Home Missing; Text Count Invalid (N=1)")
	countReasons(hist, "Home Missing")
	countReasons(hist, "")
	require.Equal(t, map[string]int{"Home Missing": 2, "Text Count Invalid (N=1)": 1}, hist)
}

func TestCountReasons_SyntheticFailKeptWhole(t *testing.T) {
	hist := map[string]int{}
	reason := entity.AnalysisErrorPrefix + "errorString: upstream said: a; b"
	countReasons(hist, reason)
	countReasons(hist, "Home Missing")
	require.Equal(t, map[string]int{reason: 1, "Home Missing": 1}, hist)
}
