package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/bindings"
	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/models"
	"github.com/halbzeit-ai/review-platform/internal/notify"
	"github.com/halbzeit-ai/review-platform/internal/ollama"
	"github.com/halbzeit-ai/review-platform/internal/pipeline"
	"github.com/halbzeit-ai/review-platform/internal/progress"
	"github.com/halbzeit-ai/review-platform/internal/render"
)

// buildWorker wires configuration into the full worker dependency graph:
// bindings store, model registry, runtime client, rasterizer, pipeline, and
// the command worker on top.
func buildWorker(cfg *config.Config, logger *slog.Logger) (*command.Worker, func(), error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("ensure directories: %w", err)
	}

	bindingStore, err := bindings.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open bindings store: %w", err)
	}
	cleanup := func() {
		_ = bindingStore.Close()
	}

	registry := models.NewRegistry(bindingStore, logger)

	runtime := ollama.NewClient(ollama.Config{
		BaseURL:           cfg.Ollama.BaseURL,
		GenerationTimeout: time.Duration(cfg.Ollama.GenerationTimeout) * time.Second,
		PullTimeout:       time.Duration(cfg.Ollama.PullTimeout) * time.Second,
	})

	rasterizer, err := render.New(cfg.Render.PdftoppmBinary, cfg.Render.DPI, cfg.Render.RenderTimeout)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init rasterizer: %w", err)
	}

	reporter := progress.NewReporter(cfg.Paths.ProgressDir, logger)
	runner := pipeline.New(registry, runtime, rasterizer, reporter, cfg.Paths.StagingDir, logger)
	notifier := notify.NewService(cfg)

	worker := command.NewWorker(
		cfg.Paths.CommandsDir,
		cfg.Paths.StatusDir,
		cfg.Paths.ResultsDir,
		time.Duration(cfg.Worker.PollInterval)*time.Second,
		runtime,
		runner,
		bindingStore,
		notifier,
		logger,
	)
	return worker, cleanup, nil
}
