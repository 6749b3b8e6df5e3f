package rpc

import (
	"time"

	"device-inspector/internal/domain/entity"
)

type EvaluateRequest struct {
	Detections      []entity.Detection         `json:"detections"`
	Classifications []entity.ROIClassification `json:"classifications"`
}

// VerdictReply вердикт в том же виде, что и в REST.
type VerdictReply struct {
	Status     entity.Status         `json:"status"`
	Reason     *string               `json:"reason"`
	Confidence float64               `json:"confidence"`
	Details    entity.VerdictDetails `json:"details"`
}

func newVerdictReply(v entity.Verdict) *VerdictReply {
	return &VerdictReply{
		Status:     v.Status,
		Reason:     v.Reason(),
		Confidence: v.Confidence,
		Details:    v.Details(),
	}
}

type AnalyzeImageRequest struct {
	Filename string `json:"filename"`
	Image    []byte `json:"image"`
}

// StatisticsRequest пустые границы означают весь период.
type StatisticsRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
