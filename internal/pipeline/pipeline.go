// Package pipeline sequences the index run: fetch the catalog, enumerate
// artifacts, join them into a service map, and render the output tree.
// Execution is single-threaded; every stage blocks until complete.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docindex/internal/assets"
	"git.home.luguber.info/inful/docindex/internal/catalog"
	"git.home.luguber.info/inful/docindex/internal/config"
	"git.home.luguber.info/inful/docindex/internal/diag"
	"git.home.luguber.info/inful/docindex/internal/langext"
	"git.home.luguber.info/inful/docindex/internal/listing"
	"git.home.luguber.info/inful/docindex/internal/metrics"
	"git.home.luguber.info/inful/docindex/internal/render"
	"git.home.luguber.info/inful/docindex/internal/retry"
	"git.home.luguber.info/inful/docindex/internal/sitebuilder"
	"git.home.luguber.info/inful/docindex/internal/tocmap"
)

// Pipeline wires the stages of one index run.
type Pipeline struct {
	cfg      *config.Config
	fetcher  *catalog.Fetcher
	lister   *listing.Lister
	builder  *sitebuilder.Builder
	recorder metrics.Recorder
	workDir  string
}

// New creates a pipeline from configuration.
func New(cfg *config.Config) *Pipeline {
	interval := cfg.Catalog.RetryIntervalDuration()
	policy := retry.NewPolicy(retry.BackoffFixed, interval, interval, cfg.Catalog.Attempts-1)
	return &Pipeline{
		cfg:      cfg,
		fetcher:  catalog.NewFetcher(nil, policy),
		lister:   listing.NewLister(nil),
		builder:  sitebuilder.NewBuilder(cfg.Builder.Command),
		recorder: metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the pipeline for chaining.
func (p *Pipeline) SetRecorder(r metrics.Recorder) *Pipeline {
	if r == nil {
		p.recorder = metrics.NoopRecorder{}
		return p
	}
	p.recorder = r
	return p
}

// SetWorkDir overrides the scratch directory used for repository clones.
func (p *Pipeline) SetWorkDir(dir string) *Pipeline {
	p.workDir = dir
	return p
}

// Run executes the full pipeline and returns the run report. Fatal stage
// errors abort the run; the report always reflects what happened up to that
// point. Diagnostics are surfaced as a batch at the end, never interleaved.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := newRunReport(p.cfg.Output.Language)
	rs := newRunState(p, report)

	slog.Info("Starting index run", "id", report.ID, "output", p.cfg.Output.Directory, "language", p.cfg.Output.Language)

	// Resolve the language extension up front. Absence is a normal
	// no-extension case and only produces a diagnostic.
	if _, ok := langext.Lookup(p.cfg.Output.Language); !ok {
		rs.Diags.Add(diag.UnresolvedEntryPoint, p.cfg.Output.Language, "no language handler registered; continuing without extensions")
	}

	stages := []stageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageFetchCatalog, stageFetchCatalog},
		{StageListArtifacts, stageListArtifacts},
		{StageBuildMap, stageBuildMap},
		{StageRenderToc, stageRenderToc},
		{StageSiteAssets, stageSiteAssets},
		{StageRunBuilder, stageRunBuilder},
	}

	err := runStages(ctx, rs, stages, p.recorder)

	report.Diagnostics = rs.Diags.Items()
	for _, d := range report.Diagnostics {
		p.recorder.IncDiagnostic(string(d.Kind))
	}
	report.deriveOutcome()
	report.finish()
	p.recorder.ObserveRunDuration(report.End.Sub(report.Start))
	p.recorder.IncRunOutcome(string(report.Outcome))

	if err == nil {
		if perr := report.Persist(p.cfg.Output.Directory); perr != nil {
			slog.Warn("Failed to persist run report", "error", perr)
		}
	}

	rs.Diags.LogSummary()
	slog.Info("Index run finished", "id", report.ID, "outcome", string(report.Outcome),
		"artifacts", report.Artifacts, "services", report.Services)
	return report, err
}

// stagePrepareOutput clears the output tree (rendering into a dirty tree
// appends duplicate headings) and lets the site tool lay down its scaffold.
func stagePrepareOutput(ctx context.Context, rs *RunState) error {
	p := rs.Pipeline
	renderer := render.NewRenderer(p.cfg.Output.Directory)
	if p.cfg.Output.Clean {
		if err := renderer.Clean(); err != nil {
			return newFatalStageError(StagePrepareOutput, err)
		}
	}
	if err := os.MkdirAll(p.cfg.Output.Directory, 0755); err != nil {
		return newFatalStageError(StagePrepareOutput, err)
	}
	if p.builder.Enabled() {
		if err := p.builder.Init(p.cfg.Output.Directory); err != nil {
			return newWarnStageError(StagePrepareOutput, err)
		}
	}
	return nil
}

func stageFetchCatalog(ctx context.Context, rs *RunState) error {
	records, err := rs.Pipeline.fetcher.FetchMetadata(ctx, rs.Pipeline.cfg.Catalog.URL)
	if err != nil {
		return newFatalStageError(StageFetchCatalog, err)
	}
	rs.Metadata = records
	return nil
}

func stageListArtifacts(ctx context.Context, rs *RunState) error {
	cfg := rs.Pipeline.cfg
	transform, err := listing.NewNameTransform(cfg.Listing.Pattern, cfg.Listing.Replace)
	if err != nil {
		return newFatalStageError(StageListArtifacts, err)
	}
	artifacts, err := rs.Pipeline.lister.ListArtifacts(ctx, cfg.Listing.URL, transform)
	if err != nil {
		return newFatalStageError(StageListArtifacts, err)
	}
	rs.Artifacts = artifacts
	rs.Report.Artifacts = len(artifacts)
	rs.Pipeline.recorder.SetArtifactsListed(len(artifacts))
	return nil
}

func stageBuildMap(ctx context.Context, rs *RunState) error {
	serviceMap, diags := tocmap.BuildServiceMap(rs.Metadata, rs.Artifacts)
	rs.ServiceMap = serviceMap
	rs.Diags.Merge(diags)
	return nil
}

func stageRenderToc(ctx context.Context, rs *RunState) error {
	p := rs.Pipeline
	doc := render.BuildDocument(rs.ServiceMap, p.cfg.Output.Language)
	if handler, ok := langext.Lookup(p.cfg.Output.Language); ok {
		if err := handler.BeforeRender(doc); err != nil {
			return newWarnStageError(StageRenderToc, err)
		}
	}
	rs.Doc = doc
	rs.Report.Services = len(doc.Services)
	p.recorder.SetServicesGrouped(len(doc.Services))

	if err := render.NewRenderer(p.cfg.Output.Directory).RenderToc(doc); err != nil {
		return newFatalStageError(StageRenderToc, err)
	}
	return nil
}

// stageSiteAssets copies README and CONTRIBUTING into the tree. Failures here
// degrade the homepage, not the index, so they surface as warnings.
func stageSiteAssets(ctx context.Context, rs *RunState) error {
	p := rs.Pipeline
	workDir := p.workDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "docindex-*")
		if err != nil {
			return newWarnStageError(StageSiteAssets, err)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	}

	repoRoot, err := assets.NewResolver(p.cfg.Repo).Resolve(workDir)
	if err != nil {
		return newWarnStageError(StageSiteAssets, err)
	}
	rs.RepoRoot = repoRoot

	apiDir := render.NewRenderer(p.cfg.Output.Directory).APIDir()
	if err := assets.CopyPages(repoRoot, apiDir); err != nil {
		return newWarnStageError(StageSiteAssets, err)
	}
	if body, err := os.ReadFile(filepath.Join(repoRoot, "README.md")); err == nil {
		rs.Report.HomepageTitle = assets.HomepageTitle(body)
	}
	return nil
}

func stageRunBuilder(ctx context.Context, rs *RunState) error {
	p := rs.Pipeline
	if !p.builder.Enabled() {
		return nil
	}
	if err := p.builder.Build(p.cfg.Output.Directory, p.cfg.Builder.ConfigPath); err != nil {
		// The index tree is already written and publishable without the
		// rendered static site.
		return newWarnStageError(StageRunBuilder, err)
	}
	return nil
}
