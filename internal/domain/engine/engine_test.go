package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"device-inspector/internal/domain/entity"
)

func backOnlyTable() entity.ProductTable {
	return entity.ProductTable{
		{ID: "DV-BK", ButtonType: entity.ButtonBack},
		{ID: "DV-BK-KO", ButtonType: entity.ButtonBack, Language: "ko"},
		{ID: "DV-ID-KO", ButtonType: entity.ButtonID, Language: "ko"},
	}
}

func TestEngine_PassingDevice(t *testing.T) {
	dets, cls := passingDevice()
	v := New(backOnlyTable()).Evaluate(dets, cls)

	require.Equal(t, entity.StatusPass, v.Status)
	require.Empty(t, v.Reasons)
	require.Empty(t, v.Rules)
	require.Nil(t, v.Reason())
	require.Equal(t, "DV-BK", v.ProductModel)
	require.Equal(t, 90.0, v.Confidence)
	require.Equal(t, entity.FeatureBreakdown{Home: entity.Pass, IDBack: entity.Pass, Status: entity.Pass, Screen: entity.Pass}, v.Breakdown)
}

func TestEngine_BackQualityFail(t *testing.T) {
	dets, cls := passingDevice()
	cls[2] = btn(entity.ClassBack, false, 0.9)

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, entity.StatusFail, v.Status)
	require.Contains(t, v.Reasons, "Back Fail")
	require.Equal(t, entity.Fail, v.Breakdown.IDBack)
}

func TestEngine_DuplicateBackWithOneFail(t *testing.T) {
	dets, cls := passingDevice()
	dets = append(dets, det(entity.ClassBack, 0.9))
	cls = append(cls, btn(entity.ClassBack, false, 0.9))

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, []string{"Back Fail"}, v.Reasons)
}

func TestEngine_BackAndIDBothPresent(t *testing.T) {
	dets, cls := passingDevice()
	dets = append(dets, det(entity.ClassID, 0.9))
	cls = append(cls, btn(entity.ClassID, true, 0.9))

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, entity.StatusFail, v.Status)
	require.Contains(t, v.Reasons, "Back and ID Both Present")
	require.Contains(t, v.Reasons, ReasonBackIDMismatch)
	require.Empty(t, v.ProductModel)
	require.Nil(t, v.Details().ProductModel)
}

func TestEngine_TwoTextRegions(t *testing.T) {
	dets, cls := passingDevice()
	dets = append(dets, det(entity.ClassText, 0.9), det(entity.ClassText, 0.9))
	cls = append(cls, txt("ko"), txt("ko"))

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, []string{"Text Count Invalid (N=2)"}, v.Reasons)
	require.Equal(t, []string{"cardinality.text"}, v.Rules)
	require.Equal(t, "DV-BK-KO", v.ProductModel)
	require.Equal(t, 2, v.TextCount)
	// разбивка остаётся зелёной, итог - FAIL
	require.Equal(t, entity.Pass, v.Breakdown.Screen)
	require.Equal(t, entity.StatusFail, v.Status)
}

func TestEngine_ThreeTextRegionsResolveLanguage(t *testing.T) {
	dets, cls := passingDevice()
	cls = append(cls, txt("ko"), txt("ko"), txt("en"))

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, entity.StatusPass, v.Status)
	require.Equal(t, "DV-BK-KO", v.ProductModel)
	require.Equal(t, entity.LanguageCode("ko"), v.Language)
}

func TestEngine_DegenerateBoxesIgnored(t *testing.T) {
	dets, cls := passingDevice()
	flat := entity.BoundingBox{X1: 5, Y1: 5, X2: 5, Y2: 30}
	dets = append(dets, entity.Detection{Class: entity.ClassID, Box: flat, Confidence: 0.1})
	cls = append(cls, entity.ROIClassification{Class: entity.ClassID, Box: flat, Probability: 0.1, Status: entity.Fail})

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, entity.StatusPass, v.Status)
	require.Equal(t, 90.0, v.Confidence)
	require.Len(t, v.Detections, 4)
}

func TestEngine_UnknownClassIgnored(t *testing.T) {
	dets, cls := passingDevice()
	dets = append(dets, entity.Detection{Class: "sticker", Box: box, Confidence: 0.2})

	v := New(backOnlyTable()).Evaluate(dets, cls)
	require.Equal(t, entity.StatusPass, v.Status)
	require.Equal(t, 90.0, v.Confidence)
}

func TestEngine_NoObservations(t *testing.T) {
	v := New(backOnlyTable()).Evaluate(nil, nil)
	require.Equal(t, entity.StatusFail, v.Status)
	require.Zero(t, v.Confidence)
}

func TestEngine_Idempotent(t *testing.T) {
	dets, cls := passingDevice()
	cls = append(cls, txt("en"))
	e := New(backOnlyTable())

	require.Equal(t, e.Evaluate(dets, cls), e.Evaluate(dets, cls))
}

func TestEngine_StatusMatchesReasons(t *testing.T) {
	classes := []entity.FeatureClass{
		entity.ClassHome, entity.ClassBack, entity.ClassID, entity.ClassStatus,
		entity.ClassScreenSmall, entity.ClassScreenBig, entity.ClassText,
	}
	langs := []entity.LanguageCode{"ko", "en"}
	rng := rand.New(rand.NewSource(7))
	e := New(backOnlyTable())

	for i := 0; i < 500; i++ {
		var dets []entity.Detection
		var cls []entity.ROIClassification
		for j := rng.Intn(10); j > 0; j-- {
			c := classes[rng.Intn(len(classes))]
			dets = append(dets, det(c, rng.Float64()))
			switch {
			case c.IsButton():
				cls = append(cls, btn(c, rng.Intn(4) > 0, rng.Float64()))
			case c == entity.ClassText:
				cls = append(cls, txt(langs[rng.Intn(len(langs))]))
			}
		}

		v := e.Evaluate(dets, cls)
		require.Equal(t, len(v.Reasons) == 0, v.Status == entity.StatusPass)
		require.Equal(t, v.ProductModel != "", v.Details().ModelStatus == entity.Pass)
		require.GreaterOrEqual(t, v.Confidence, 0.0)
		require.LessOrEqual(t, v.Confidence, 100.0)
	}
}
