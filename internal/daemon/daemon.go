package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// Daemon runs the command worker as a background service and enforces
// single-instance execution: the GPU and model runtime behind the worker
// tolerate exactly one consumer.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	worker *command.Worker

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, worker *command.Worker, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || worker == nil {
		return nil, errors.New("daemon requires config and worker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "halbzeitd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		worker:   worker,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the worker poll loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another worker instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("command worker exited", logging.Error(err))
		}
	}()

	d.logger.Info("worker daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop terminates the worker loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("worker daemon stopped")
}

// Running reports whether the daemon has started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the daemon lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
