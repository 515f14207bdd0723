package main

import (
	"fmt"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// commandContext lazily loads configuration and builds the dispatcher the
// subcommands share.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	configPath string
	dispatcher *command.Dispatcher
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolved
	return cfg, nil
}

func (c *commandContext) ensureDispatcher() (*command.Dispatcher, error) {
	if c.dispatcher != nil {
		return c.dispatcher, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure shared directories: %w", err)
	}
	c.dispatcher = command.NewDispatcher(cfg.Paths.CommandsDir, cfg.Paths.StatusDir, logging.NewNop())
	return c.dispatcher, nil
}

// statusPollInterval is how often wait-mode subcommands re-read the status
// directory. Matches the worker's default poll interval.
const statusPollInterval = 5 * time.Second
