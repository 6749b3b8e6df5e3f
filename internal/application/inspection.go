package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"device-inspector/internal/domain/engine"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// ErrBatchRunning новый пакет нельзя запустить, пока не закончен предыдущий.
var ErrBatchRunning = errors.New("batch analysis is already running")

// Observer получает события анализа (метрики).
type Observer interface {
	// rules идентификаторы нарушенных правил, а не тексты причин
	ObserveAnalysis(status entity.Status, rules []string, took time.Duration)
	ObserveBatch(p entity.BatchProgress)
}

type nopObserver struct{}

func (nopObserver) ObserveAnalysis(entity.Status, []string, time.Duration) {}
func (nopObserver) ObserveBatch(entity.BatchProgress)                      {}

// InspectionService управляет анализом изображений и хранением результатов.
type InspectionService struct {
	engine    *engine.Engine
	detector  port.Detector
	roi       *engine.ROIAdapter
	repo      port.VerdictRepository
	prober    port.ImageProber
	annotator port.Annotator
	observer  Observer
	log       *zap.Logger
	workers   int
	now       func() time.Time

	mu       sync.RWMutex
	progress entity.BatchProgress
}

// Option настройка InspectionService
type Option func(*InspectionService)

func WithLogger(l *zap.Logger) Option {
	return func(s *InspectionService) { s.log = l }
}

func WithObserver(o Observer) Option {
	return func(s *InspectionService) { s.observer = o }
}

// WithProber включает проверку изображения до вызова моделей.
func WithProber(p port.ImageProber) Option {
	return func(s *InspectionService) { s.prober = p }
}

// WithAnnotator включает отрисовку детекций в ответе.
func WithAnnotator(a port.Annotator) Option {
	return func(s *InspectionService) { s.annotator = a }
}

func WithWorkers(n int) Option {
	return func(s *InspectionService) { s.workers = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *InspectionService) { s.now = now }
}

// NewInspectionService создаёт сервис анализа.
func NewInspectionService(
	eng *engine.Engine,
	detector port.Detector,
	roi *engine.ROIAdapter,
	repo port.VerdictRepository,
	opts ...Option,
) *InspectionService {
	s := &InspectionService{
		engine:   eng,
		detector: detector,
		roi:      roi,
		repo:     repo,
		observer: nopObserver{},
		log:      zap.NewNop(),
		workers:  4,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	s.log = s.log.Named("inspection")
	return s
}

// AnalysisOutput сохранённая запись, вердикт и картинка с разметкой.
type AnalysisOutput struct {
	Record    *entity.AnalysisRecord
	Verdict   entity.Verdict
	Annotated []byte
}

// AnalyzeImage анализирует одно изображение и сохраняет результат.
// Ошибки входа и недоступность моделей возвращаются как ошибки,
// прочие сбои превращаются в FAIL с причиной "analysis error".
func (s *InspectionService) AnalyzeImage(ctx context.Context, filename string, data []byte) (*AnalysisOutput, error) {
	if len(data) == 0 {
		return nil, entity.ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.prober != nil {
		if _, _, err := s.prober.Probe(data); err != nil {
			return nil, err
		}
	}

	analysisID := uuid.NewString()
	started := time.Now()

	verdict, err := s.analyze(ctx, data)
	switch {
	case err == nil:
	case errors.Is(err, port.ErrModelUnavailable), isInputError(err):
		return nil, err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		s.log.Error("analysis failed",
			zap.String("analysis_id", analysisID),
			zap.String("filename", filename),
			zap.Error(err),
		)
		verdict = entity.FailedVerdict(analysisErrorReason(err))
	}

	record := entity.NewAnalysisRecord(filename, verdict, s.now())
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	took := time.Since(started)
	s.observer.ObserveAnalysis(verdict.Status, verdict.Rules, took)
	s.log.Info("image analysed",
		zap.String("analysis_id", analysisID),
		zap.Int64("record_id", record.ID),
		zap.String("filename", filename),
		zap.String("status", string(verdict.Status)),
		zap.String("reason", record.ReasonText()),
		zap.Float64("confidence", verdict.Confidence),
		zap.Duration("duration", took),
	)

	out := &AnalysisOutput{Record: record, Verdict: verdict}
	if s.annotator != nil {
		annotated, err := s.annotator.Annotate(data, &verdict)
		if err != nil {
			s.log.Warn("annotate failed", zap.String("analysis_id", analysisID), zap.Error(err))
		} else {
			out.Annotated = annotated
		}
	}
	return out, nil
}

// AnalyzeFrame анализирует кадр с камеры.
func (s *InspectionService) AnalyzeFrame(ctx context.Context, data []byte) (*AnalysisOutput, error) {
	return s.AnalyzeImage(ctx, FrameFilename(s.now()), data)
}

// FrameFilename имя записи для кадра с камеры
func FrameFilename(t time.Time) string {
	return "CAMERA_" + t.Format("20060102_150405")
}

// EvaluateDetections применяет правила к готовым выходам моделей без сохранения.
func (s *InspectionService) EvaluateDetections(detections []entity.Detection, classifications []entity.ROIClassification) entity.Verdict {
	return s.engine.Evaluate(detections, classifications)
}

func (s *InspectionService) analyze(ctx context.Context, data []byte) (v entity.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	detections, err := s.detector.Detect(ctx, data)
	if err != nil {
		return entity.Verdict{}, fmt.Errorf("detect: %w", err)
	}
	classifications, err := s.roi.Classify(ctx, data, detections)
	if err != nil {
		return entity.Verdict{}, err
	}
	return s.engine.Evaluate(detections, classifications), nil
}

// BatchItem одно изображение пакета
type BatchItem struct {
	Filename string
	Data     []byte
}

// AnalyzeBatch анализирует пакет с ограниченным параллелизмом.
// Результаты идут в порядке входа. Любая ошибка элемента даёт запись ERROR,
// пакет продолжается. Недоступность моделей прерывает весь пакет.
func (s *InspectionService) AnalyzeBatch(ctx context.Context, items []BatchItem) (string, []entity.AnalysisRecord, error) {
	batchID := uuid.NewString()

	s.mu.Lock()
	if s.progress.Running {
		s.mu.Unlock()
		return "", nil, ErrBatchRunning
	}
	s.progress = entity.BatchProgress{BatchID: batchID, Total: len(items), Running: true}
	snapshot := s.progress
	s.mu.Unlock()
	s.observer.ObserveBatch(snapshot)

	defer func() {
		s.mu.Lock()
		s.progress.Running = false
		s.mu.Unlock()
	}()

	results := make([]entity.AnalysisRecord, len(items))
	// Отдельная ошибка элемента не отменяет соседей
	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, item := range items {
		g.Go(func() error {
			out, err := s.AnalyzeImage(ctx, item.Filename, item.Data)
			switch {
			case err == nil:
				results[i] = *out.Record
			case errors.Is(err, port.ErrModelUnavailable):
				return fmt.Errorf("%s: %w", item.Filename, err)
			default:
				if !isInputError(err) {
					s.log.Error("batch item failed",
						zap.String("batch_id", batchID),
						zap.String("filename", item.Filename),
						zap.Error(err),
					)
				}
				results[i] = errorRecord(item.Filename, err, s.now())
			}
			s.completeOne()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("batch aborted", zap.String("batch_id", batchID), zap.Error(err))
		return batchID, nil, err
	}
	s.log.Info("batch finished", zap.String("batch_id", batchID), zap.Int("total", len(items)))
	return batchID, results, nil
}

func (s *InspectionService) completeOne() {
	s.mu.Lock()
	s.progress.Completed++
	snapshot := s.progress
	s.mu.Unlock()
	s.observer.ObserveBatch(snapshot)
}

// Progress снимок прогресса последнего пакета
func (s *InspectionService) Progress() entity.BatchProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// Results сохранённые записи по фильтру
func (s *InspectionService) Results(ctx context.Context, filter entity.ResultFilter) ([]entity.AnalysisRecord, error) {
	return s.repo.List(ctx, filter)
}

// Statistics сводка за период
func (s *InspectionService) Statistics(ctx context.Context, from, to time.Time) (entity.Statistics, error) {
	return s.repo.Statistics(ctx, from, to)
}

func errorRecord(filename string, err error, ts time.Time) entity.AnalysisRecord {
	reason := err.Error()
	v := entity.FailedVerdict(reason)
	return entity.AnalysisRecord{
		Filename:  filename,
		Status:    entity.StatusError,
		Reason:    &reason,
		Details:   v.Details(),
		Timestamp: ts,
	}
}

func isInputError(err error) bool {
	return errors.Is(err, entity.ErrEmptyImage) || errors.Is(err, entity.ErrUndecodableImage)
}

// PanicError паника внутри анализа одного изображения
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}

// analysisErrorReason "analysis error: <тип>: <сообщение>" по первопричине.
func analysisErrorReason(err error) string {
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	typ := fmt.Sprintf("%T", root)
	typ = strings.TrimPrefix(typ, "*")
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return fmt.Sprintf("%s%s: %s", entity.AnalysisErrorPrefix, typ, root.Error())
}
