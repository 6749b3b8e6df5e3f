package rpc

import (
	"context"

	"google.golang.org/grpc"

	"device-inspector/internal/domain/entity"
)

// Client клиент сервиса inspection.v1.Inspection поверх JSON-кодека.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Evaluate(ctx context.Context, req *EvaluateRequest, opts ...grpc.CallOption) (*VerdictReply, error) {
	out := new(VerdictReply)
	if err := c.invoke(ctx, "Evaluate", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnalyzeImage(ctx context.Context, req *AnalyzeImageRequest, opts ...grpc.CallOption) (*entity.AnalysisRecord, error) {
	out := new(entity.AnalysisRecord)
	if err := c.invoke(ctx, "AnalyzeImage", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Statistics(ctx context.Context, req *StatisticsRequest, opts ...grpc.CallOption) (*entity.Statistics, error) {
	out := new(entity.Statistics)
	if err := c.invoke(ctx, "Statistics", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...)
}
