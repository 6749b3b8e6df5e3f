package inference

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

// State жизненный цикл клиента модели
type State int32

const (
	StateCreated State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Options параметры подключения к сервису инференса
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	DetectorConf float64
	Logger       *zap.Logger
}

// Client HTTP-клиент сервиса с детектором и классификатором.
// До Init и после Shutdown все вызовы возвращают port.ErrModelUnavailable.
type Client struct {
	http  *resty.Client
	conf  float64
	state atomic.Int32
	log   *zap.Logger

	detectorLoaded   atomic.Bool
	classifierLoaded atomic.Bool
}

// ModelStatus состояние моделей для /api/model_status
type ModelStatus struct {
	State            string `json:"state"`
	DetectorLoaded   bool   `json:"yolo_loaded"`
	ClassifierLoaded bool   `json:"cnn_loaded"`
}

type healthResponse struct {
	Detector   *bool `json:"detector"`
	Classifier *bool `json:"classifier"`
}

type detectResponse struct {
	Detections []entity.Detection `json:"detections"`
}

type buttonResponse struct {
	Probability float64 `json:"probability"`
	Pass        bool    `json:"pass"`
}

type textResponse struct {
	Probability float64 `json:"probability"`
	Language    string  `json:"language"`
}

// New создаёт клиента в состоянии Created
func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	http := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout)

	return &Client{
		http: http,
		conf: opts.DetectorConf,
		log:  opts.Logger.Named("inference"),
	}
}

// Init проверяет доступность сервиса и переводит клиента в Ready
func (c *Client) Init(ctx context.Context) error {
	if c.State() == StateClosed {
		return port.ErrModelUnavailable
	}

	var health healthResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return fmt.Errorf("inference health: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("inference health: status %s", resp.Status())
	}

	c.detectorLoaded.Store(health.Detector == nil || *health.Detector)
	c.classifierLoaded.Store(health.Classifier == nil || *health.Classifier)
	if !c.detectorLoaded.Load() || !c.classifierLoaded.Load() {
		return fmt.Errorf("inference service is up but models are not loaded (detector=%t, classifier=%t)",
			c.detectorLoaded.Load(), c.classifierLoaded.Load())
	}

	c.state.Store(int32(StateReady))
	c.log.Info("inference client ready", zap.String("base_url", c.http.BaseURL))
	return nil
}

// InitWithRetry повторяет Init с экспоненциальной паузой от minWait до maxWait,
// пока клиент не станет Ready или не отменён ctx.
func (c *Client) InitWithRetry(ctx context.Context, minWait, maxWait time.Duration) error {
	wait := minWait
	for attempt := 1; ; attempt++ {
		err := c.Init(ctx)
		if err == nil {
			return nil
		}
		if c.State() == StateClosed {
			return err
		}
		c.log.Warn("inference service is not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = min(wait*2, maxWait)
	}
}

// Shutdown необратимо закрывает клиента
func (c *Client) Shutdown() {
	c.state.Store(int32(StateClosed))
	c.detectorLoaded.Store(false)
	c.classifierLoaded.Store(false)
}

func (c *Client) State() State {
	return State(c.state.Load())
}

// Status снимок состояния моделей
func (c *Client) Status() ModelStatus {
	return ModelStatus{
		State:            c.State().String(),
		DetectorLoaded:   c.detectorLoaded.Load(),
		ClassifierLoaded: c.classifierLoaded.Load(),
	}
}

// Detect запускает детектор на изображении
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	var out detectResponse
	err := c.post(ctx, "/detect", imageData, map[string]string{
		"conf": strconv.FormatFloat(c.conf, 'f', -1, 64),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Detections == nil {
		out.Detections = []entity.Detection{}
	}
	return out.Detections, nil
}

// ClassifyButton классифицирует качество кнопки по вырезанной области
func (c *Client) ClassifyButton(ctx context.Context, crop []byte, class entity.FeatureClass) (float64, bool, error) {
	var out buttonResponse
	err := c.post(ctx, "/classify/button", crop, map[string]string{
		"condition": string(class),
	}, &out)
	if err != nil {
		return 0, false, err
	}
	return out.Probability, out.Pass, nil
}

// ClassifyLanguage определяет язык текстовой области
func (c *Client) ClassifyLanguage(ctx context.Context, crop []byte) (float64, entity.LanguageCode, error) {
	var out textResponse
	if err := c.post(ctx, "/classify/text", crop, nil, &out); err != nil {
		return 0, entity.LanguageNone, err
	}
	return out.Probability, entity.LanguageCode(out.Language), nil
}

func (c *Client) post(ctx context.Context, path string, image []byte, form map[string]string, result any) error {
	if c.State() != StateReady {
		return port.ErrModelUnavailable
	}

	req := c.http.R().
		SetContext(ctx).
		SetFileReader("file", "image.jpg", bytes.NewReader(image)).
		SetResult(result)
	if len(form) > 0 {
		req.SetFormData(form)
	}

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("inference %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("inference %s: status %s: %s", path, resp.Status(), resp.String())
	}
	return nil
}

var (
	_ port.Detector           = (*Client)(nil)
	_ port.ButtonClassifier   = (*Client)(nil)
	_ port.LanguageClassifier = (*Client)(nil)
)
