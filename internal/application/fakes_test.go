package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"device-inspector/internal/domain/engine"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/infrastructure/storage"
)

var roiBox = entity.BoundingBox{X1: 10, Y1: 10, X2: 40, Y2: 30}

func passingDetections() []entity.Detection {
	return []entity.Detection{
		{Class: entity.ClassHome, Box: roiBox, Confidence: 0.9},
		{Class: entity.ClassStatus, Box: roiBox, Confidence: 0.9},
		{Class: entity.ClassScreenBig, Box: roiBox, Confidence: 0.9},
		{Class: entity.ClassBack, Box: roiBox, Confidence: 0.9},
	}
}

type fakeDetector struct {
	fn func(data []byte) ([]entity.Detection, error)
}

func (f *fakeDetector) Detect(ctx context.Context, data []byte) ([]entity.Detection, error) {
	if f.fn != nil {
		return f.fn(data)
	}
	return passingDetections(), nil
}

type fakeCropper struct{}

func (fakeCropper) Crop(data []byte, _ entity.BoundingBox) ([]byte, error) { return data, nil }

type fakeButtons struct{}

func (fakeButtons) ClassifyButton(context.Context, []byte, entity.FeatureClass) (float64, bool, error) {
	return 0.9, true, nil
}

type fakeLanguages struct{}

func (fakeLanguages) ClassifyLanguage(context.Context, []byte) (float64, entity.LanguageCode, error) {
	return 0.8, entity.LanguageNone, nil
}

type fakeProber struct{}

func (fakeProber) Probe(data []byte) (int, int, error) {
	if string(data) == "bad" {
		return 0, 0, fmt.Errorf("%w: unknown format", entity.ErrUndecodableImage)
	}
	return 640, 480, nil
}

type fakeAnnotator struct{}

func (fakeAnnotator) Annotate(data []byte, v *entity.Verdict) ([]byte, error) {
	if v.Status == entity.StatusFail {
		return nil, errors.New("no font")
	}
	return []byte("annotated"), nil
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []entity.Status
	rules    [][]string
	batches  []entity.BatchProgress
}

func (o *recordingObserver) ObserveAnalysis(status entity.Status, rules []string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
	o.rules = append(o.rules, rules)
}

// flakyRepository отказывает в сохранении для одного имени файла.
type flakyRepository struct {
	*storage.MemoryVerdictRepository
	failFor string
}

func (r *flakyRepository) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	if record.Filename == r.failFor {
		return errors.New("db down")
	}
	return r.MemoryVerdictRepository.Save(ctx, record)
}

func (o *recordingObserver) ObserveBatch(p entity.BatchProgress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.batches = append(o.batches, p)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(det *fakeDetector, opts ...Option) (*InspectionService, *storage.MemoryVerdictRepository) {
	repo := storage.NewMemoryVerdictRepository()
	roi := engine.NewROIAdapter(fakeCropper{}, fakeButtons{}, fakeLanguages{})
	opts = append([]Option{WithProber(fakeProber{}), WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := NewInspectionService(engine.New(entity.DefaultProductTable()), det, roi, repo, opts...)
	return svc, repo
}
