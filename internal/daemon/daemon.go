// Package daemon runs the index pipeline on a schedule. Each scheduled run is
// the same strictly sequential pipeline; runs never overlap.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docindex/internal/config"
	"git.home.luguber.info/inful/docindex/internal/history"
	"git.home.luguber.info/inful/docindex/internal/metrics"
	"git.home.luguber.info/inful/docindex/internal/notify"
	"git.home.luguber.info/inful/docindex/internal/pipeline"
)

// Daemon schedules periodic index rebuilds and serves metrics.
type Daemon struct {
	mu         sync.RWMutex
	cfg        *config.Config
	configPath string
	scheduler  gocron.Scheduler
	recorder   metrics.Recorder
	registry   *prom.Registry
	store      *history.Store
	publisher  *notify.Publisher
	httpServer *http.Server
	watcher    *configWatcher
}

// New creates a daemon from configuration. configPath enables live reload on
// config file changes; pass "" to disable watching.
func New(cfg *config.Config, configPath string) (*Daemon, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	d := &Daemon{
		cfg:        cfg,
		configPath: configPath,
		scheduler:  scheduler,
		recorder:   metrics.NoopRecorder{},
	}

	if cfg.Metrics.Enabled {
		d.registry = prom.NewRegistry()
		d.recorder = metrics.NewPrometheusRecorder(d.registry)
	}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		d.store = store
	}
	if cfg.Notify.URL != "" {
		pub, err := notify.NewPublisher(cfg.Notify)
		if err != nil {
			slog.Warn("Notification publisher unavailable", "error", err)
		} else {
			d.publisher = pub
		}
	}
	return d, nil
}

// Start schedules the periodic run and blocks until ctx is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	interval := d.cfg.Daemon.IntervalDuration()

	// Singleton mode: a rebuild that overruns the interval suppresses the
	// next trigger instead of overlapping it.
	_, err := d.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { d.runOnce(ctx) }),
		gocron.WithName("index-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule rebuild job: %w", err)
	}

	if d.configPath != "" {
		watcher, err := newConfigWatcher(d.configPath, d.reloadConfig)
		if err != nil {
			slog.Warn("Config watching unavailable", "error", err)
		} else {
			d.watcher = watcher
			go watcher.run(ctx)
		}
	}

	if d.cfg.Metrics.Enabled {
		d.httpServer = &http.Server{
			Addr:              d.cfg.Metrics.Listen,
			Handler:           d.metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("Metrics endpoint listening", "addr", d.cfg.Metrics.Listen)
			if err := d.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	d.scheduler.Start()
	slog.Info("Daemon started", "interval", interval.String())

	<-ctx.Done()
	return nil
}

// Stop shuts everything down gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.watcher != nil {
		d.watcher.close()
	}
	if d.httpServer != nil {
		if err := d.httpServer.Shutdown(ctx); err != nil {
			slog.Warn("Metrics server shutdown failed", "error", err)
		}
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
	return d.scheduler.Shutdown()
}

func (d *Daemon) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(d.registry))
	return mux
}

// runOnce executes a single pipeline run with the current config snapshot.
func (d *Daemon) runOnce(ctx context.Context) {
	d.mu.RLock()
	cfg := d.cfg
	d.mu.RUnlock()

	report, err := pipeline.New(cfg).SetRecorder(d.recorder).Run(ctx)
	if err != nil {
		slog.Error("Scheduled run failed", "error", err)
	}
	if report == nil {
		return
	}
	if d.store != nil {
		if err := d.store.Record(ctx, report); err != nil {
			slog.Warn("Failed to record run history", "error", err)
		}
	}
	if d.publisher != nil {
		if err := d.publisher.PublishReport(report); err != nil {
			slog.Warn("Failed to publish run report", "error", err)
		}
	}
}

// reloadConfig re-reads the config file and swaps the active snapshot. The
// next scheduled run picks it up; an in-flight run keeps its old snapshot.
func (d *Daemon) reloadConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("Config reload failed; keeping previous configuration", "path", d.configPath, "error", err)
		return
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	slog.Info("Configuration reloaded", "path", d.configPath)
}
