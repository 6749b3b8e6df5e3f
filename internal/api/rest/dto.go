package rest

import (
	"encoding/base64"
	"errors"
	"strings"

	"device-inspector/internal/domain/entity"
)

type detectionDTO struct {
	Class      string    `json:"class" binding:"required"`
	BBox       []float64 `json:"bbox" binding:"required,len=4"`
	Confidence float64   `json:"confidence" binding:"min=0,max=1"`
}

type classificationDTO struct {
	Class       string    `json:"class" binding:"required"`
	BBox        []float64 `json:"bbox" binding:"omitempty,len=4"`
	Probability float64   `json:"probability" binding:"min=0,max=1"`
	Status      string    `json:"status" binding:"omitempty,oneof=Pass Fail"`
	Language    string    `json:"language"`
}

type evaluateRequest struct {
	Detections      []detectionDTO      `json:"detections" binding:"dive"`
	Classifications []classificationDTO `json:"classifications" binding:"dive"`
}

func (r evaluateRequest) toEntities() ([]entity.Detection, []entity.ROIClassification) {
	dets := make([]entity.Detection, 0, len(r.Detections))
	for _, d := range r.Detections {
		box, _ := entity.BoxFromSlice(d.BBox)
		dets = append(dets, entity.Detection{
			Class:      entity.FeatureClass(d.Class),
			Box:        box,
			Confidence: d.Confidence,
		})
	}

	cls := make([]entity.ROIClassification, 0, len(r.Classifications))
	for _, c := range r.Classifications {
		var box entity.BoundingBox
		if len(c.BBox) > 0 {
			box, _ = entity.BoxFromSlice(c.BBox)
		}
		cls = append(cls, entity.ROIClassification{
			Class:       entity.FeatureClass(c.Class),
			Box:         box,
			Probability: c.Probability,
			Status:      entity.PassFail(c.Status),
			Language:    entity.LanguageCode(c.Language),
		})
	}
	return dets, cls
}

type frameResponse struct {
	*entity.AnalysisRecord
	ProcessedImage *string `json:"processed_image_b64"`
}

type batchResponse struct {
	BatchID string                  `json:"batch_id"`
	Results []entity.AnalysisRecord `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeBase64Image принимает base64 с необязательным префиксом data:image/...;base64,
func decodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i != -1 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(entity.ErrUndecodableImage, err)
	}
	return data, nil
}

func encodeBase64Image(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(data)
	return &s
}
