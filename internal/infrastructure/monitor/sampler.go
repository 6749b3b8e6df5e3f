package monitor

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// Sampler периодически снимает память и CPU текущего процесса
type Sampler struct {
	proc    *process.Process
	metrics *Metrics
	log     *zap.Logger
}

func NewSampler(m *Metrics, log *zap.Logger) (*Sampler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process: %w", err)
	}
	return &Sampler{proc: proc, metrics: m, log: log.Named("monitor")}, nil
}

// Sample снимает одно значение
func (s *Sampler) Sample(ctx context.Context) error {
	mem, err := s.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("memory info: %w", err)
	}
	cpu, err := s.proc.CPUPercentWithContext(ctx)
	if err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	s.metrics.setProcess(float64(mem.RSS/1024/1024), math.Round(cpu*100)/100)
	return nil
}

// Run снимает значения с интервалом до отмены контекста
func (s *Sampler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sample(ctx); err != nil {
				s.log.Warn("process sample failed", zap.Error(err))
			}
		}
	}
}
