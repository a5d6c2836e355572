package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Listing ListingConfig `yaml:"listing"`
	Output  OutputConfig  `yaml:"output"`
	Repo    RepoConfig    `yaml:"repo"`
	Builder BuilderConfig `yaml:"builder,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Daemon  DaemonConfig  `yaml:"daemon,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// CatalogConfig locates the package metadata catalog.
type CatalogConfig struct {
	URL           string `yaml:"url"`
	Attempts      int    `yaml:"attempts,omitempty"`       // total attempts including the first
	RetryInterval string `yaml:"retry_interval,omitempty"` // fixed delay between attempts, e.g. "10s"
}

// RetryIntervalDuration parses the configured interval; invalid or empty
// values fall back to the 10 second default.
func (c CatalogConfig) RetryIntervalDuration() time.Duration {
	if d, err := time.ParseDuration(c.RetryInterval); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// ListingConfig locates the artifact listing endpoint and the rewrite that
// turns a blob prefix into an artifact name.
type ListingConfig struct {
	URL     string `yaml:"url"`
	Pattern string `yaml:"pattern"`     // regex with one capture group
	Replace string `yaml:"replacement"` // capture rewrite, e.g. "$1"
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Language  string `yaml:"language"` // display language, e.g. "Go"
	Clean     bool   `yaml:"clean"`    // Clean output directory before build
}

// RepoConfig names the SDK repository that supplies README and CONTRIBUTING.
// Either a local checkout path or a clone URL; path wins when both are set.
type RepoConfig struct {
	Path   string `yaml:"path,omitempty"`
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

// BuilderConfig controls the external static site tool.
type BuilderConfig struct {
	Command    string `yaml:"command,omitempty"` // defaults to "docfx"
	ConfigPath string `yaml:"config,omitempty"`
}

// MetricsConfig enables the Prometheus endpoint in daemon mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// HistoryConfig enables run history persistence.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// NotifyConfig enables publishing run reports over NATS.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// DaemonConfig controls periodic rebuilds.
type DaemonConfig struct {
	Interval string `yaml:"interval,omitempty"` // e.g. "24h"
}

// IntervalDuration parses the configured interval; invalid or empty values
// fall back to a daily rebuild.
func (c DaemonConfig) IntervalDuration() time.Duration {
	if d, err := time.ParseDuration(c.Interval); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// LoggingConfig selects level and format for slog.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env / .env.local if present; absence is not an error.
	_ = godotenv.Load(".env.local", ".env")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.Attempts <= 0 {
		c.Catalog.Attempts = 3
	}
	if c.Catalog.RetryInterval == "" {
		c.Catalog.RetryInterval = "10s"
	}
	if c.Listing.Pattern == "" {
		c.Listing.Pattern = `^[a-z]+/(.*)/$`
	}
	if c.Listing.Replace == "" {
		c.Listing.Replace = "$1"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./docs-ref"
	}
	if c.Output.Language == "" {
		c.Output.Language = "Go"
	}
	if c.Repo.Branch == "" {
		c.Repo.Branch = "main"
	}
	if c.Builder.Command == "" {
		c.Builder.Command = "docfx"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9190"
	}
	if c.History.Path == "" {
		c.History.Path = "docindex-history.db"
	}
	if c.Daemon.Interval == "" {
		c.Daemon.Interval = "24h"
	}
}

// Validate checks fields the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	if c.Listing.URL == "" {
		return fmt.Errorf("listing.url is required")
	}
	if _, err := regexp.Compile(c.Listing.Pattern); err != nil {
		return fmt.Errorf("listing.pattern is not a valid regex: %w", err)
	}
	if c.Catalog.RetryInterval != "" {
		if _, err := time.ParseDuration(c.Catalog.RetryInterval); err != nil {
			return fmt.Errorf("catalog.retry_interval is not a valid duration: %w", err)
		}
	}
	if c.Daemon.Interval != "" {
		if _, err := time.ParseDuration(c.Daemon.Interval); err != nil {
			return fmt.Errorf("daemon.interval is not a valid duration: %w", err)
		}
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Catalog: CatalogConfig{
			URL:           "https://example.blob.core.windows.net/metadata/latest/package-catalog.csv",
			Attempts:      3,
			RetryInterval: "10s",
		},
		Listing: ListingConfig{
			URL:     "https://example.blob.core.windows.net/docs?restype=container&comp=list&delimiter=%2F&prefix=go%2F",
			Pattern: `^go/(.*)/$`,
			Replace: "$1",
		},
		Output: OutputConfig{
			Directory: "./docs-ref",
			Language:  "Go",
			Clean:     true,
		},
		Repo: RepoConfig{
			URL:    "https://github.com/example/azure-sdk-for-go.git",
			Branch: "main",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
