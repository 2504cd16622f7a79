// Package config builds the immutable run configuration. Values resolve in
// layers: defaults, then the optional .aiscan/config.yaml, then environment
// variables. Flags are applied last by the CLI. Credentials are never stored
// here; they stay in the environment and are resolved by the provider
// factory at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/aiscan/internal/domain/policy"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/tabular"
)

// Environment variable overrides.
const (
	EnvProvider    = "AISCAN_PROVIDER"
	EnvModel       = "AISCAN_MODEL"
	EnvConcurrency = "AISCAN_CONCURRENCY"
	EnvRetries     = "AISCAN_RETRIES"
	EnvTimeout     = "AISCAN_TIMEOUT"
	EnvReasonMax   = "AISCAN_REASON_MAX"
)

// Config is the process-wide run configuration, loaded once at startup and
// passed to components.
type Config struct {
	Provider    string          `yaml:"provider"`    // preferred credential scheme: azure, openai, mock
	Model       string          `yaml:"model"`       // model name for the direct scheme
	Concurrency int             `yaml:"concurrency"` // parallel classifier calls; 1 = sequential
	Retries     int             `yaml:"retries"`     // attempts per record for transient failures
	Timeout     string          `yaml:"timeout"`     // per-attempt ceiling, duration string
	ReasonMax   int             `yaml:"reason_max"`  // reason length cap in characters
	Sheet       string          `yaml:"sheet"`       // worksheet for xlsx input
	AllSheets   bool            `yaml:"all_sheets"`
	Columns     tabular.Columns `yaml:"columns"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Load reads the layered configuration rooted at root.
func Load(root string) (*Config, error) {
	cfg := defaults()

	if err := applyFile(root, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .aiscan/config.yaml.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func defaults() *Config {
	return &Config{
		Concurrency: 1,
		Retries:     3,
		Timeout:     "60s",
		ReasonMax:   policy.DefaultReasonMax,
	}
}

func applyFile(root string, cfg *Config) error {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvProvider); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		cfg.Timeout = v
	}

	setInt := func(envVar string, dst *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(EnvConcurrency, &cfg.Concurrency)
	setInt(EnvRetries, &cfg.Retries)
	setInt(EnvReasonMax, &cfg.ReasonMax)
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}
	if c.ReasonMax < 1 {
		return fmt.Errorf("reason_max must be at least 1, got %d", c.ReasonMax)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
