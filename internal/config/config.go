// Package config handles YAML configuration parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"protobench/internal/collector"
	"protobench/internal/dataset"
)

// DefaultFile is the config file picked up from the working directory
// when no path is given.
const DefaultFile = "protobench.yaml"

// Output formats for the final report.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the root configuration structure.
type Config struct {
	Dataset    DatasetConfig         `yaml:"dataset"`
	A2A        A2AConfig             `yaml:"a2a"`
	MCP        MCPConfig             `yaml:"mcp"`
	Execution  ExecutionConfig       `yaml:"execution"`
	Output     OutputConfig          `yaml:"output"`
	Thresholds *collector.Thresholds `yaml:"thresholds,omitempty"`
}

// DatasetConfig locates the shared dataset and the parameters used to
// generate it.
type DatasetConfig struct {
	Path           string `yaml:"path"`
	dataset.Params `yaml:",inline"`
}

// A2AConfig addresses the agent worker.
type A2AConfig struct {
	URL string `yaml:"url"` // full process_task endpoint
}

// MCPConfig addresses the tool server.
type MCPConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ExecutionConfig controls request-level execution behavior.
type ExecutionConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	WarmupIterations int           `yaml:"warmup_iterations"`
	RPS              float64       `yaml:"rps"` // 0 = unpaced
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	CSV    bool   `yaml:"csv"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:   "common_dataset.json",
			Params: dataset.DefaultParams(),
		},
		A2A: A2AConfig{URL: "http://127.0.0.1:5002/process_task"},
		MCP: MCPConfig{BaseURL: "http://127.0.0.1:5001"},
		Execution: ExecutionConfig{
			Timeout: 5 * time.Second,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: FormatText,
		},
	}
}

// Load reads configuration from path. An empty path searches the working
// directory for DefaultFile and falls back to DefaultConfig when absent.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return DefaultConfig(), nil
		}
		path = DefaultFile
	}
	return LoadConfig(path)
}

// LoadConfig reads and parses a YAML configuration file over the defaults.
// Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	var errs []error

	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}
	if err := c.Dataset.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("a2a.url", c.A2A.URL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("mcp.base_url", c.MCP.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.Execution.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("execution.timeout must be positive, got %v", c.Execution.Timeout))
	}
	if c.Execution.WarmupIterations < 0 {
		errs = append(errs, fmt.Errorf("execution.warmup_iterations must not be negative, got %d", c.Execution.WarmupIterations))
	}
	if c.Execution.RPS < 0 {
		errs = append(errs, fmt.Errorf("execution.rps must not be negative, got %v", c.Execution.RPS))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	if c.Output.Format != FormatText && c.Output.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", FormatText, FormatJSON, c.Output.Format))
	}
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	return nil
}
