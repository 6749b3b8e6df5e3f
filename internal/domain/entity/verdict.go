package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Status итоговый статус анализа
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	// StatusError только для элементов пакета, которые не удалось проанализировать.
	StatusError Status = "ERROR"
)

// FeatureBreakdown диагностическая разбивка по подсистемам.
// Может расходиться с итоговым статусом.
type FeatureBreakdown struct {
	Home   PassFail
	IDBack PassFail
	Status PassFail
	Screen PassFail
}

// Verdict итог анализа одного изображения. После создания не изменяется.
type Verdict struct {
	Status          Status
	Reasons         []string
	Rules           []string // идентификаторы нарушенных правил, параллельно Reasons
	Confidence      float64 // 0-100, два знака после запятой
	ProductModel    string  // пусто, если модель не определена
	Language        LanguageCode
	Breakdown       FeatureBreakdown
	TextCount       int
	Detections      []Detection
	Classifications []ROIClassification
}

// RuleAnalysisError идентификатор синтетического FAIL
const RuleAnalysisError = "analysis_error"

// AnalysisErrorPrefix начало причины синтетического FAIL
const AnalysisErrorPrefix = "analysis error: "

// FailedVerdict синтетический FAIL для неожиданной ошибки анализа.
func FailedVerdict(reason string) Verdict {
	return Verdict{
		Status:  StatusFail,
		Reasons: []string{reason},
		Rules:   []string{RuleAnalysisError},
		Breakdown: FeatureBreakdown{
			Home:   Fail,
			IDBack: Fail,
			Status: Fail,
			Screen: Fail,
		},
		Detections:      []Detection{},
		Classifications: []ROIClassification{},
	}
}

// Reason склеивает причины через "; ". nil для PASS.
func (v Verdict) Reason() *string {
	if len(v.Reasons) == 0 {
		return nil
	}
	s := strings.Join(v.Reasons, "; ")
	return &s
}

// Details собирает блок details для JSON и хранилища.
func (v Verdict) Details() VerdictDetails {
	d := VerdictDetails{
		HomeStatus:      v.Breakdown.Home,
		IDBackStatus:    v.Breakdown.IDBack,
		StatusStatus:    v.Breakdown.Status,
		ScreenStatus:    v.Breakdown.Screen,
		ModelStatus:     PassIf(v.ProductModel != ""),
		TextCount:       v.TextCount,
		Detections:      v.Detections,
		Classifications: v.Classifications,
	}
	if v.ProductModel != "" {
		model := v.ProductModel
		d.ProductModel = &model
	}
	if v.Language != LanguageNone {
		lang := string(v.Language)
		d.Language = &lang
	}
	if d.Detections == nil {
		d.Detections = []Detection{}
	}
	if d.Classifications == nil {
		d.Classifications = []ROIClassification{}
	}
	return d
}

// VerdictDetails сериализуемая часть вердикта.
type VerdictDetails struct {
	ProductModel    *string             `json:"product_model"`
	Language        *string             `json:"language"`
	HomeStatus      PassFail            `json:"home_status"`
	IDBackStatus    PassFail            `json:"id_back_status"`
	StatusStatus    PassFail            `json:"status_status"`
	ScreenStatus    PassFail            `json:"screen_status"`
	ModelStatus     PassFail            `json:"model_status"`
	TextCount       int                 `json:"text_count"`
	Detections      []Detection         `json:"yolo_detections"`
	Classifications []ROIClassification `json:"cnn_results"`
}

type verdictJSON struct {
	Status     Status         `json:"status"`
	Reason     *string        `json:"reason"`
	Confidence float64        `json:"confidence"`
	Details    VerdictDetails `json:"details"`
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(verdictJSON{
		Status:     v.Status,
		Reason:     v.Reason(),
		Confidence: v.Confidence,
		Details:    v.Details(),
	})
}

// AnalysisRecord сохранённый результат анализа.
type AnalysisRecord struct {
	ID         int64          `json:"id"`
	Filename   string         `json:"filename"`
	Status     Status         `json:"status"`
	Reason     *string        `json:"reason"`
	Confidence float64        `json:"confidence"`
	Details    VerdictDetails `json:"details"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewAnalysisRecord готовит запись к сохранению. ID назначает хранилище.
func NewAnalysisRecord(filename string, v Verdict, ts time.Time) *AnalysisRecord {
	return &AnalysisRecord{
		Filename:   filename,
		Status:     v.Status,
		Reason:     v.Reason(),
		Confidence: v.Confidence,
		Details:    v.Details(),
		Timestamp:  ts,
	}
}

// ReasonText возвращает причину или пустую строку.
func (r AnalysisRecord) ReasonText() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}
