package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SharedDir = filepath.Join(base, "shared")
	cfgVal.Paths.CommandsDir = filepath.Join(base, "shared", "commands")
	cfgVal.Paths.StatusDir = filepath.Join(base, "shared", "status")
	cfgVal.Paths.ProgressDir = filepath.Join(base, "shared", "progress")
	cfgVal.Paths.ResultsDir = filepath.Join(base, "shared", "results")
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Worker.PollInterval = 1
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithOllamaBaseURL points the test config at a stub model runtime.
func WithOllamaBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ollama.BaseURL = url
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
