package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"device-inspector/internal/domain/entity"
)

// Metrics метрики инспекции в собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	verdicts       *prometheus.CounterVec
	failReasons    *prometheus.CounterVec
	analysis       prometheus.Histogram
	batchCompleted prometheus.Gauge
	batchTotal     prometheus.Gauge
	memUsage       prometheus.Gauge
	cpuUsage       prometheus.Gauge
	rpcRequests    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspection_verdicts_total",
			Help: "Analysed images by final status",
		}, []string{"status"}),
		failReasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspection_fail_reasons_total",
			Help: "Violated rules by rule id, analysis_error for synthetic fails",
		}, []string{"rule"}),
		analysis: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inspection_analysis_seconds",
			Help:    "Duration of a single image analysis",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		batchCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "batch_completed",
			Help: "Completed items of the current batch",
		}),
		batchTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "batch_total",
			Help: "Items in the current batch",
		}),
		memUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "process_memory_megabytes",
			Help: "Resident memory of the process in megabytes",
		}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "process_cpu_percent",
			Help: "CPU usage of the process in percent",
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grpc_requests_total",
			Help: "Total number of gRPC requests processed",
		}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		m.verdicts, m.failReasons, m.analysis,
		m.batchCompleted, m.batchTotal, m.memUsage, m.cpuUsage,
		m.rpcRequests,
	)
	return m
}

// Handler обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен для регистрации метрик транспорта
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAnalysis учитывает один завершённый анализ.
// Метка rule берётся из идентификаторов правил, тексты причин в метки не попадают.
func (m *Metrics) ObserveAnalysis(status entity.Status, rules []string, took time.Duration) {
	m.verdicts.WithLabelValues(string(status)).Inc()
	if status == entity.StatusFail {
		for _, r := range rules {
			m.failReasons.WithLabelValues(r).Inc()
		}
	}
	m.analysis.Observe(took.Seconds())
}

// ObserveBatch обновляет прогресс пакета
func (m *Metrics) ObserveBatch(p entity.BatchProgress) {
	m.batchTotal.Set(float64(p.Total))
	m.batchCompleted.Set(float64(p.Completed))
}

// ObserveRPC учитывает вызов gRPC
func (m *Metrics) ObserveRPC(method, code string) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
}

func (m *Metrics) setProcess(memMB, cpuPercent float64) {
	m.memUsage.Set(memMB)
	m.cpuUsage.Set(cpuPercent)
}
