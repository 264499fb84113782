package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	filesRead     prom.Gauge
	filesWritten  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "sitepipe",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitepipe",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.filesRead = prom.NewGauge(prom.GaugeOpts{
		Namespace: "sitepipe",
		Name:      "files_read",
		Help:      "Files read from the source tree in the last build",
	})
	pr.filesWritten = prom.NewGauge(prom.GaugeOpts{
		Namespace: "sitepipe",
		Name:      "files_written",
		Help:      "Files written to the destination in the last build",
	})
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.filesRead, pr.filesWritten)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetFilesRead(n int) { p.filesRead.Set(float64(n)) }

func (p *PrometheusRecorder) SetFilesWritten(n int) { p.filesWritten.Set(float64(n)) }

// Handler returns an HTTP handler exposing the recorder's registry in
// Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
