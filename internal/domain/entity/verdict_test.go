package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerdictReason(t *testing.T) {
	require.Nil(t, Verdict{Status: StatusPass}.Reason())

	v := Verdict{Status: StatusFail, Reasons: []string{"Home Missing", "UnknownModel"}}
	require.Equal(t, "Home Missing; UnknownModel", *v.Reason())
}

func TestVerdictJSON(t *testing.T) {
	v := Verdict{
		Status:       StatusPass,
		Confidence:   91.5,
		ProductModel: "DV-200-BK",
		Breakdown:    FeatureBreakdown{Home: Pass, IDBack: Pass, Status: Pass, Screen: Pass},
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"status": "PASS",
		"reason": null,
		"confidence": 91.5,
		"details": {
			"product_model": "DV-200-BK",
			"language": null,
			"home_status": "Pass",
			"id_back_status": "Pass",
			"status_status": "Pass",
			"screen_status": "Pass",
			"model_status": "Pass",
			"text_count": 0,
			"yolo_detections": [],
			"cnn_results": []
		}
	}`, string(data))
}

func TestFailedVerdict(t *testing.T) {
	v := FailedVerdict("analysis error: boom")
	require.Equal(t, StatusFail, v.Status)
	require.Zero(t, v.Confidence)
	require.Equal(t, []string{RuleAnalysisError}, v.Rules)
	d := v.Details()
	require.Equal(t, Fail, d.ModelStatus)
	require.Nil(t, d.ProductModel)
}

func TestNewAnalysisRecord(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewAnalysisRecord("a.jpg", Verdict{Status: StatusFail, Reasons: []string{"Stat Missing"}, Language: "ko"}, ts)
	require.Equal(t, "Stat Missing", r.ReasonText())
	require.Equal(t, "ko", *r.Details.Language)
	require.Equal(t, ts, r.Timestamp)
}
