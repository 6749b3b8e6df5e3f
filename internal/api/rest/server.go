package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	app "device-inspector/internal/application"
	"device-inspector/internal/infrastructure/inference"
)

// ModelState источник состояния моделей для /api/model_status
type ModelState interface {
	Status() inference.ModelStatus
}

// Options параметры HTTP-сервера
type Options struct {
	Metrics        http.Handler // nil - /metrics не публикуется
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// Server HTTP API инспекции
type Server struct {
	svc      *app.InspectionService
	models   ModelState
	log      *zap.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
	srv      *http.Server
	maxBody  int64
}

func NewServer(svc *app.InspectionService, models ModelState, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}

	s := &Server{
		svc:     svc,
		models:  models,
		log:     opts.Logger.Named("http"),
		maxBody: opts.MaxUploadBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = opts.MaxUploadBytes

	r.GET("/health", s.health)
	api := r.Group("/api")
	{
		api.GET("/model_status", s.modelStatus)
		api.POST("/analyze-image", s.analyzeImage)
		api.POST("/analyze-batch", s.analyzeBatch)
		api.POST("/analyze-frame", s.analyzeFrame)
		api.POST("/evaluate", s.evaluate)
		api.GET("/analysis-progress", s.progress)
		api.GET("/results", s.results)
		api.GET("/statistics", s.statistics)
		api.GET("/report", s.report)
	}
	r.GET("/ws/frames", s.frames)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	s.router = r
	s.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler для тестов и встраивания
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe блокирует до Shutdown
func (s *Server) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	s.log.Info("http server listening", zap.Int("port", port))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
