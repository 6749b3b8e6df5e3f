package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	app "device-inspector/internal/application"
	"device-inspector/internal/domain/entity"
	"device-inspector/internal/domain/port"
)

const ServiceName = "inspection.v1.Inspection"

// RequestObserver учитывает вызовы в метриках.
type RequestObserver interface {
	ObserveRPC(method, code string)
}

// InspectionServer серверная часть сервиса inspection.v1.Inspection.
type InspectionServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*VerdictReply, error)
	AnalyzeImage(context.Context, *AnalyzeImageRequest) (*entity.AnalysisRecord, error)
	Statistics(context.Context, *StatisticsRequest) (*entity.Statistics, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InspectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "AnalyzeImage", Handler: analyzeImageHandler},
		{MethodName: "Statistics", Handler: statisticsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inspection/v1/inspection.proto",
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EvaluateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Evaluate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Evaluate(ctx, req.(*EvaluateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func analyzeImageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AnalyzeImageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).AnalyzeImage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/AnalyzeImage"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).AnalyzeImage(ctx, req.(*AnalyzeImageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func statisticsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatisticsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Statistics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Statistics"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Statistics(ctx, req.(*StatisticsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type Options struct {
	Logger   *zap.Logger
	Observer RequestObserver
}

// Server gRPC-обёртка над InspectionService.
type Server struct {
	svc      *app.InspectionService
	log      *zap.Logger
	observer RequestObserver
	grpc     *grpc.Server
}

func NewServer(svc *app.InspectionService, opts Options) *Server {
	s := &Server{
		svc:      svc,
		log:      opts.Logger,
		observer: opts.Observer,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("grpc")
	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(s.intercept))
	s.grpc.RegisterService(&serviceDesc, s)
	return s
}

func (s *Server) Evaluate(_ context.Context, req *EvaluateRequest) (*VerdictReply, error) {
	v := s.svc.EvaluateDetections(req.Detections, req.Classifications)
	return newVerdictReply(v), nil
}

func (s *Server) AnalyzeImage(ctx context.Context, req *AnalyzeImageRequest) (*entity.AnalysisRecord, error) {
	if req.Filename == "" {
		return nil, status.Error(codes.InvalidArgument, "filename cannot be empty")
	}
	out, err := s.svc.AnalyzeImage(ctx, req.Filename, req.Image)
	if err != nil {
		return nil, toStatus(err)
	}
	return out.Record, nil
}

func (s *Server) Statistics(ctx context.Context, req *StatisticsRequest) (*entity.Statistics, error) {
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, status.Errorf(codes.InvalidArgument, "range end %s is before start %s",
			req.To.Format(time.RFC3339), req.From.Format(time.RFC3339))
	}
	stats, err := s.svc.Statistics(ctx, req.From, req.To)
	if err != nil {
		return nil, toStatus(err)
	}
	return &stats, nil
}

// Serve блокируется до остановки сервера.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

func (s *Server) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	return s.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

func (s *Server) intercept(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	started := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	method := path.Base(info.FullMethod)
	if s.observer != nil {
		s.observer.ObserveRPC(method, code.String())
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("code", code.String()),
		zap.Duration("duration", time.Since(started)),
	}
	if code == codes.Internal || code == codes.Unknown {
		s.log.Error("rpc failed", append(fields, zap.Error(err))...)
	} else {
		s.log.Debug("rpc", fields...)
	}
	return resp, err
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, entity.ErrEmptyImage), errors.Is(err, entity.ErrUndecodableImage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrModelUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, app.ErrBatchRunning):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
