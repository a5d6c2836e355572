package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docindex/internal/config"
	"git.home.luguber.info/inful/docindex/internal/daemon"
	"git.home.luguber.info/inful/docindex/internal/history"
	"git.home.luguber.info/inful/docindex/internal/notify"
	"git.home.luguber.info/inful/docindex/internal/pipeline"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Override the output directory"`
	} `cmd:"" help:"Build the documentation index once"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Daemon struct {
	} `cmd:"" help:"Run periodic index rebuilds"`

	History struct {
		Limit int `short:"n" help:"Number of runs to show" default:"20"`
	} `cmd:"" help:"Show recent index runs"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "build":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Build.Output != "" {
			cfg.Output.Directory = CLI.Build.Output
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "daemon":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runDaemon(cfg); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	case "history":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runHistory(cfg, CLI.History.Limit); err != nil {
			slog.Error("History failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	cfg.Logging.SetupLogging(CLI.Verbose)
	return cfg, nil
}

func runBuild(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		store, serr := history.NewStore(cfg.History.Path)
		if serr != nil {
			slog.Warn("History unavailable", "error", serr)
		} else {
			defer func() { _ = store.Close() }()
			if rerr := store.Record(ctx, report); rerr != nil {
				slog.Warn("Failed to record run history", "error", rerr)
			}
		}
	}

	if cfg.Notify.URL != "" {
		pub, perr := notify.NewPublisher(cfg.Notify)
		if perr != nil {
			slog.Warn("Notification publisher unavailable", "error", perr)
		} else {
			defer pub.Close()
			if nerr := pub.PublishReport(report); nerr != nil {
				slog.Warn("Failed to publish run report", "error", nerr)
			}
		}
	}
	return nil
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, CLI.Config)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	slog.Info("Daemon started, waiting for shutdown signal...")

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("daemon error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := d.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	slog.Info("Daemon stopped successfully")
	return nil
}

func runHistory(cfg *config.Config, limit int) error {
	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %-8s  artifacts=%d services=%d diagnostics=%d\n",
			e.Start.Format(time.RFC3339), e.ID, e.Outcome, e.Artifacts, e.Services, e.Diagnostics)
	}
	return nil
}
