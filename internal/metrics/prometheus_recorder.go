package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	runDuration     prom.Histogram
	stageResults    *prom.CounterVec
	runOutcome      *prom.CounterVec
	artifactsListed prom.Gauge
	servicesGrouped prom.Gauge
	diagnostics     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docindex",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docindex",
			Name:      "run_duration_seconds",
			Help:      "Total index run duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docindex",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docindex",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		artifactsListed: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docindex",
			Name:      "artifacts_listed",
			Help:      "Artifacts enumerated by the last listing",
		}),
		servicesGrouped: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docindex",
			Name:      "services_grouped",
			Help:      "Distinct services in the last generated TOC",
		}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docindex",
			Name:      "diagnostics_total",
			Help:      "Recoverable diagnostics by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome,
		pr.artifactsListed, pr.servicesGrouped, pr.diagnostics)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetArtifactsListed(n int) {
	if p == nil || p.artifactsListed == nil {
		return
	}
	p.artifactsListed.Set(float64(n))
}

func (p *PrometheusRecorder) SetServicesGrouped(n int) {
	if p == nil || p.servicesGrouped == nil {
		return
	}
	p.servicesGrouped.Set(float64(n))
}

func (p *PrometheusRecorder) IncDiagnostic(kind string) {
	if p == nil || p.diagnostics == nil {
		return
	}
	p.diagnostics.WithLabelValues(kind).Inc()
}
