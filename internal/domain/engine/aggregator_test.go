package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

func TestMergeStatus(t *testing.T) {
	require.Equal(t, entity.Pass, mergeStatus(entity.Pass, entity.Pass))
	require.Equal(t, entity.Fail, mergeStatus(entity.Pass, entity.Fail))
	require.Equal(t, entity.Fail, mergeStatus(entity.Fail, entity.Pass))
}

func TestAggregate_WorstOfDuplicates(t *testing.T) {
	for _, order := range [][]bool{{true, false}, {false, true}, {true, true, false}} {
		var cls []entity.ROIClassification
		for _, pass := range order {
			cls = append(cls, btn(entity.ClassBack, pass, 0.8))
		}
		state := Aggregate(nil, cls)
		require.Equal(t, entity.Fail, state.ButtonStatus[entity.ClassBack], "order %v", order)
	}

	state := Aggregate(nil, []entity.ROIClassification{btn(entity.ClassHome, true, 0.8), btn(entity.ClassHome, true, 0.7)})
	require.Equal(t, entity.Pass, state.ButtonStatus[entity.ClassHome])
}

func TestAggregate_PresenceAndLanguages(t *testing.T) {
	dets := []entity.Detection{
		det(entity.ClassHome, 0.9),
		det(entity.ClassScreenSmall, 0.9),
		det(entity.ClassText, 0.9),
	}
	cls := []entity.ROIClassification{txt("ko"), txt("en"), btn(entity.ClassHome, true, 0.9)}

	state := Aggregate(dets, cls)
	require.True(t, state.Home)
	require.True(t, state.Screen)
	require.False(t, state.Back)
	require.False(t, state.ID)
	require.False(t, state.Status)
	require.Equal(t, []entity.LanguageCode{"ko", "en"}, state.Languages)
	require.Equal(t, 2, state.TextCount())

	_, ok := state.ButtonStatus[entity.ClassStatus]
	require.False(t, ok)
	require.False(t, state.ButtonPass(entity.ClassStatus))
}

func TestAggregate_MissingStatusCountsAsFail(t *testing.T) {
	state := Aggregate(nil, []entity.ROIClassification{{Class: entity.ClassID, Box: box, Probability: 0.5}})
	require.Equal(t, entity.Fail, state.ButtonStatus[entity.ClassID])
}
