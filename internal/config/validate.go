package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for values the worker cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.CommandsDir) == "" {
		return fmt.Errorf("paths: commands_dir (or shared_dir) must be set")
	}
	if strings.TrimSpace(c.Paths.StatusDir) == "" {
		return fmt.Errorf("paths: status_dir (or shared_dir) must be set")
	}
	if strings.TrimSpace(c.Paths.ProgressDir) == "" {
		return fmt.Errorf("paths: progress_dir (or shared_dir) must be set")
	}
	if c.Paths.CommandsDir == c.Paths.StatusDir {
		return fmt.Errorf("paths: commands_dir and status_dir must differ")
	}
	if _, err := url.Parse(c.Ollama.BaseURL); err != nil || strings.TrimSpace(c.Ollama.BaseURL) == "" {
		return fmt.Errorf("ollama: base_url %q is not a valid URL", c.Ollama.BaseURL)
	}
	if c.Ollama.GenerationTimeout <= 0 {
		return fmt.Errorf("ollama: generation_timeout must be positive")
	}
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("worker: poll_interval must be positive")
	}
	if c.Render.DPI <= 0 {
		return fmt.Errorf("render: dpi must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("logging: unsupported format %q", c.Logging.Format)
	}
	return nil
}
