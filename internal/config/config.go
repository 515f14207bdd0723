package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the shared-volume directory layout exchanged between the
// control process and the GPU worker.
type Paths struct {
	SharedDir   string `toml:"shared_dir"`
	CommandsDir string `toml:"commands_dir"`
	StatusDir   string `toml:"status_dir"`
	ProgressDir string `toml:"progress_dir"`
	ResultsDir  string `toml:"results_dir"`
	StagingDir  string `toml:"staging_dir"`
	DataDir     string `toml:"data_dir"`
	LogDir      string `toml:"log_dir"`
}

// Ollama contains connection settings for the local model runtime.
type Ollama struct {
	BaseURL           string `toml:"base_url"`
	GenerationTimeout int    `toml:"generation_timeout"`
	PullTimeout       int    `toml:"pull_timeout"`
}

// Worker contains timing configuration for the command poll loop.
type Worker struct {
	PollInterval int `toml:"poll_interval"`
}

// Render contains configuration for PDF page rasterization.
type Render struct {
	PdftoppmBinary string `toml:"pdftoppm_binary"`
	DPI            int    `toml:"dpi"`
	RenderTimeout  int    `toml:"render_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the aggregate worker configuration.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Ollama        Ollama        `toml:"ollama"`
	Worker        Worker        `toml:"worker"`
	Render        Render        `toml:"render"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the expected location of the config file.
func DefaultConfigPath() string {
	return expandPath("~/.config/halbzeit/config.toml")
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist. It returns the config, the resolved path, and whether a
// config file was found.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultConfigPath()
	}
	resolved = expandPath(resolved)

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		cfg.normalize()
		if err := cfg.Validate(); err != nil {
			return nil, resolved, false, err
		}
		return &cfg, resolved, false, nil
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, true, err
	}
	return &cfg, resolved, true, nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates every directory the worker needs at runtime.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.CommandsDir,
		c.Paths.StatusDir,
		c.Paths.ProgressDir,
		c.Paths.ResultsDir,
		c.Paths.StagingDir,
		c.Paths.DataDir,
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// normalize expands home-relative paths and derives the exchange directories
// from shared_dir when they are not set explicitly.
func (c *Config) normalize() {
	c.Paths.SharedDir = expandPath(c.Paths.SharedDir)
	if c.Paths.CommandsDir == "" && c.Paths.SharedDir != "" {
		c.Paths.CommandsDir = filepath.Join(c.Paths.SharedDir, "commands")
	}
	if c.Paths.StatusDir == "" && c.Paths.SharedDir != "" {
		c.Paths.StatusDir = filepath.Join(c.Paths.SharedDir, "status")
	}
	if c.Paths.ProgressDir == "" && c.Paths.SharedDir != "" {
		c.Paths.ProgressDir = filepath.Join(c.Paths.SharedDir, "progress")
	}
	if c.Paths.ResultsDir == "" && c.Paths.SharedDir != "" {
		c.Paths.ResultsDir = filepath.Join(c.Paths.SharedDir, "results")
	}
	c.Paths.CommandsDir = expandPath(c.Paths.CommandsDir)
	c.Paths.StatusDir = expandPath(c.Paths.StatusDir)
	c.Paths.ProgressDir = expandPath(c.Paths.ProgressDir)
	c.Paths.ResultsDir = expandPath(c.Paths.ResultsDir)
	c.Paths.StagingDir = expandPath(c.Paths.StagingDir)
	c.Paths.DataDir = expandPath(c.Paths.DataDir)
	c.Paths.LogDir = expandPath(c.Paths.LogDir)
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
