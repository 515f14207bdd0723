package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/daemon"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/preflight"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, resolvedPath, found, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewForDaemon(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !found {
		logger.Warn("no config file found, using defaults", logging.String("path", resolvedPath))
	}

	worker, cleanup, err := buildWorker(cfg, logger)
	if err != nil {
		logger.Error("bootstrap worker", logging.Error(err))
		return
	}
	defer cleanup()

	for _, check := range preflight.RunAll(ctx, cfg) {
		if !check.Passed {
			logger.Warn("preflight check failed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail),
			)
		}
	}

	d, err := daemon.New(cfg, worker, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("halbzeitd shut down")
}
