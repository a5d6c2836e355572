package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docindex/internal/catalog"
	"git.home.luguber.info/inful/docindex/internal/diag"
	"git.home.luguber.info/inful/docindex/internal/metrics"
	"git.home.luguber.info/inful/docindex/internal/render"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageFetchCatalog  StageName = "fetch_catalog"
	StageListArtifacts StageName = "list_artifacts"
	StageBuildMap      StageName = "build_map"
	StageRenderToc     StageName = "render_toc"
	StageSiteAssets    StageName = "site_assets"
	StageRunBuilder    StageName = "run_builder"
)

// Stage is a discrete unit of work in the index run.
type Stage func(ctx context.Context, rs *RunState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// RunState carries mutable state across stages. The pipeline is strictly
// sequential; only the active stage touches it.
type RunState struct {
	Pipeline *Pipeline
	Report   *RunReport
	Diags    *diag.Collector

	Metadata   []catalog.Record
	Artifacts  []string
	ServiceMap map[string]string
	Doc        *render.TocDocument
	RepoRoot   string
}

func newRunState(p *Pipeline, report *RunReport) *RunState {
	return &RunState{Pipeline: p, Report: report, Diags: diag.NewCollector()}
}

type stageDef struct {
	name StageName
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled error. Warning errors are recorded and skipped over.
func runStages(ctx context.Context, rs *RunState, stages []stageDef, recorder metrics.Recorder) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			rs.Report.Errors = append(rs.Report.Errors, se.Error())
			rs.Report.StageErrorKinds[string(st.name)] = string(se.Kind)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, rs)
		dur := time.Since(t0)
		rs.Report.StageDurations[string(st.name)] = dur
		recorder.ObserveStageDuration(string(st.name), dur)

		if err == nil {
			recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(st.name, err)
		}
		rs.Report.StageErrorKinds[string(st.name)] = string(se.Kind)
		switch se.Kind {
		case StageErrorWarning:
			recorder.IncStageResult(string(st.name), metrics.ResultWarning)
			rs.Report.Warnings = append(rs.Report.Warnings, se.Error())
			continue
		case StageErrorCanceled:
			recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			rs.Report.Errors = append(rs.Report.Errors, se.Error())
			return se
		default:
			recorder.IncStageResult(string(st.name), metrics.ResultFatal)
			rs.Report.Errors = append(rs.Report.Errors, se.Error())
			return se
		}
	}
	return nil
}
