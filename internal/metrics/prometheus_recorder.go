package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "kirlent"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration *prom.HistogramVec
	renderOutcome  *prom.CounterVec
	documentSize   *prom.HistogramVec
	previewClients prom.Gauge
}

// NewPrometheusRecorder constructs the render metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of document renders",
			Buckets:   prom.DefBuckets,
		}, []string{"writer"}),
		renderOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by writer and result",
		}, []string{"writer", "outcome"}),
		documentSize: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_size_bytes",
			Help:      "Size of rendered documents",
			Buckets:   prom.ExponentialBuckets(1024, 4, 8),
		}, []string{"writer"}),
		previewClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "preview_clients",
			Help:      "Connected live reload clients",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.renderOutcome, pr.documentSize, pr.previewClients)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(writer string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(writer).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(writer string, outcome Outcome) {
	if p == nil || p.renderOutcome == nil {
		return
	}
	p.renderOutcome.WithLabelValues(writer, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveDocumentSize(writer string, bytes int) {
	if p == nil || p.documentSize == nil {
		return
	}
	p.documentSize.WithLabelValues(writer).Observe(float64(bytes))
}

func (p *PrometheusRecorder) SetPreviewClients(n int) {
	if p == nil || p.previewClients == nil {
		return
	}
	p.previewClients.Set(float64(n))
}
