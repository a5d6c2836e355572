package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for run and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the zero value so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|warning|failed|canceled
	SetArtifactsListed(n int)
	SetServicesGrouped(n int)
	IncDiagnostic(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) SetArtifactsListed(int)                     {}
func (NoopRecorder) SetServicesGrouped(int)                     {}
func (NoopRecorder) IncDiagnostic(string)                       {}
