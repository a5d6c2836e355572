package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "catalog:\n"+
		"  url: https://example.com/catalog.csv\n"+
		"listing:\n"+
		"  url: https://example.com/list?comp=list\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Catalog.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Catalog.Attempts)
	}
	if cfg.Catalog.RetryInterval != "10s" {
		t.Errorf("expected 10s retry interval, got %q", cfg.Catalog.RetryInterval)
	}
	if cfg.Listing.Replace != "$1" {
		t.Errorf("expected $1 replacement, got %q", cfg.Listing.Replace)
	}
	if cfg.Output.Language != "Go" {
		t.Errorf("expected Go language default, got %q", cfg.Output.Language)
	}
	if cfg.Repo.Branch != "main" {
		t.Errorf("expected main branch default, got %q", cfg.Repo.Branch)
	}
	if cfg.Builder.Command != "docfx" {
		t.Errorf("expected docfx builder default, got %q", cfg.Builder.Command)
	}
	if cfg.Daemon.Interval != "24h" {
		t.Errorf("expected 24h daemon interval, got %q", cfg.Daemon.Interval)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCINDEX_TEST_CATALOG", "https://env.example.com/catalog.csv")

	path := writeConfig(t, "catalog:\n"+
		"  url: ${DOCINDEX_TEST_CATALOG}\n"+
		"listing:\n"+
		"  url: https://example.com/list?comp=list\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Catalog.URL != "https://env.example.com/catalog.csv" {
		t.Errorf("environment variable was not expanded, got %q", cfg.Catalog.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing catalog url",
			mutate:  func(c *Config) { c.Catalog.URL = "" },
			wantErr: "catalog.url",
		},
		{
			name:    "missing listing url",
			mutate:  func(c *Config) { c.Listing.URL = "" },
			wantErr: "listing.url",
		},
		{
			name:    "invalid pattern",
			mutate:  func(c *Config) { c.Listing.Pattern = "([" },
			wantErr: "listing.pattern",
		},
		{
			name:    "invalid retry interval",
			mutate:  func(c *Config) { c.Catalog.RetryInterval = "soon" },
			wantErr: "catalog.retry_interval",
		},
		{
			name:    "invalid daemon interval",
			mutate:  func(c *Config) { c.Daemon.Interval = "daily" },
			wantErr: "daemon.interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Catalog: CatalogConfig{URL: "https://example.com/catalog.csv"},
				Listing: ListingConfig{URL: "https://example.com/list", Pattern: `^go/(.*)/$`},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	if got := (CatalogConfig{RetryInterval: "250ms"}).RetryIntervalDuration(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
	if got := (CatalogConfig{}).RetryIntervalDuration(); got != 10*time.Second {
		t.Errorf("expected 10s fallback, got %v", got)
	}
	if got := (DaemonConfig{Interval: "1h"}).IntervalDuration(); got != time.Hour {
		t.Errorf("expected 1h, got %v", got)
	}
	if got := (DaemonConfig{Interval: "garbage"}).IntervalDuration(); got != 24*time.Hour {
		t.Errorf("expected 24h fallback, got %v", got)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Init(path, false); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	// Second init without force must refuse to overwrite.
	if err := Init(path, false); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("force init failed: %v", err)
	}

	// The generated file must round-trip through Load.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Output.Language != "Go" {
		t.Errorf("unexpected language in example config: %q", cfg.Output.Language)
	}
}
