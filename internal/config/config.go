// Package config holds the provisioning configuration: defaults matching the
// target environment, an optional YAML overlay and environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvCodespaces    = "CODESPACES"
	EnvCodespaceName = "CODESPACE_NAME"
	EnvModelName     = "MODEL_NAME"
)

// Config is the explicit configuration passed into the pipeline and its
// stages. Nothing reads process-wide mutable state.
type Config struct {
	ModelID          string        `yaml:"model"`
	OllamaBin        string        `yaml:"ollama_bin"`
	OllamaPort       int           `yaml:"ollama_port"`
	AppPort          int           `yaml:"app_port"`
	ReadinessTimeout time.Duration `yaml:"readiness_timeout"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	PullRetries      int           `yaml:"pull_retries"`
	PullRetryDelay   time.Duration `yaml:"pull_retry_delay"`
	Codespaces       bool          `yaml:"codespaces"`
	CodespaceName    string        `yaml:"codespace_name"`
	LogFile          string        `yaml:"log_file"`
	Packages         []string      `yaml:"packages"`
	RequirementsFile string        `yaml:"requirements_file"`
}

// Default returns the configuration observed in the target environment.
func Default() Config {
	return Config{
		ModelID:          "deepseek-r1:7b",
		OllamaBin:        "ollama",
		OllamaPort:       11434,
		AppPort:          6969,
		ReadinessTimeout: 30 * time.Second,
		PollInterval:     time.Second,
		PullRetries:      3,
		PullRetryDelay:   10 * time.Second,
		LogFile:          "provision.log",
		Packages:         []string{"ca-certificates", "curl", "python3-pip"},
		RequirementsFile: "requirements.txt",
	}
}

// Load returns the defaults overlaid with the YAML file at path (when path
// is not empty) and with the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to read config file %s", path)
		}

		err = yaml.Unmarshal(raw, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to parse config file %s", path)
		}
	}

	cfg.ApplyEnv()

	err := cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides the configuration with the hosting environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCodespaces); v == "true" {
		c.Codespaces = true
	}

	if v := os.Getenv(EnvCodespaceName); v != "" {
		c.CodespaceName = v
	}

	if v := os.Getenv(EnvModelName); v != "" {
		c.ModelID = v
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.ModelID == "" {
		return errors.New("model must be set")
	}

	if c.OllamaPort <= 0 || c.OllamaPort > 65535 {
		return errors.Errorf("invalid runtime port %d", c.OllamaPort)
	}

	if c.AppPort <= 0 || c.AppPort > 65535 {
		return errors.Errorf("invalid app port %d", c.AppPort)
	}

	if c.PullRetries < 1 {
		return errors.New("pull retries must be at least 1")
	}

	if c.PollInterval <= 0 || c.ReadinessTimeout <= 0 {
		return errors.New("poll interval and readiness timeout must be positive")
	}

	return nil
}

// BaseURL returns the local runtime endpoint.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.OllamaPort)
}
