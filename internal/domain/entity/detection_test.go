package entity

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	x, y := b.Center()
	require.Equal(t, 14.0, x)
	require.Equal(t, 23.0, y)
}

func TestBoundingBoxDegenerate(t *testing.T) {
	require.False(t, BoundingBox{X1: 0, Y1: 0, X2: 1, Y2: 1}.Degenerate())
	require.True(t, BoundingBox{X1: 5, Y1: 0, X2: 5, Y2: 10}.Degenerate())
	require.True(t, BoundingBox{X1: 0, Y1: 10, X2: 10, Y2: 4}.Degenerate())
}

func TestBoundingBoxJSON(t *testing.T) {
	det := Detection{Class: ClassHome, Box: BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4}, Confidence: 0.9}
	data, err := json.Marshal(det)
	require.NoError(t, err)
	require.JSONEq(t, `{"class":"Btn_Home","bbox":[1,2,3,4],"confidence":0.9}`, string(data))

	var back Detection
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, det, back)

	require.Error(t, json.Unmarshal([]byte(`{"bbox":[1,2,3]}`), &back))
}

func TestBoundingBoxRect(t *testing.T) {
	b := BoundingBox{X1: 1.4, Y1: 2.6, X2: 9.2, Y2: 10}
	require.Equal(t, image.Rect(1, 2, 10, 10), b.Rect())
}

func TestParseFeatureClass(t *testing.T) {
	c, ok := ParseFeatureClass("Btn_Stat")
	require.True(t, ok)
	require.Equal(t, ClassStatus, c)
	require.True(t, c.IsButton())

	_, ok = ParseFeatureClass("sticker")
	require.False(t, ok)

	require.True(t, ClassScreenBig.IsScreen())
	require.False(t, ClassText.IsButton())
}
