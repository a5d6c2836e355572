package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorderRegistersAndRecords(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveStageDuration("list_artifacts", 120*time.Millisecond)
	r.ObserveRunDuration(time.Second)
	r.IncStageResult("render_toc", ResultSuccess)
	r.IncRunOutcome("success")
	r.SetArtifactsListed(42)
	r.SetServicesGrouped(7)
	r.IncDiagnostic("missing_service_name")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestNilRecorderMethodsAreSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveStageDuration("x", time.Second)
	r.ObserveRunDuration(time.Second)
	r.IncStageResult("x", ResultFatal)
	r.IncRunOutcome("failed")
	r.SetArtifactsListed(1)
	r.SetServicesGrouped(1)
	r.IncDiagnostic("x")
}
