package daemon_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/daemon"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/notify"
	"github.com/halbzeit-ai/review-platform/internal/testsupport"
)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()

	store := testsupport.MustOpenBindings(t, cfg)
	worker := command.NewWorker(
		cfg.Paths.CommandsDir,
		cfg.Paths.StatusDir,
		cfg.Paths.ResultsDir,
		10*time.Millisecond,
		nil,
		nil,
		store,
		notify.NewService(cfg),
		logging.NewNop(),
	)

	d, err := daemon.New(cfg, worker, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)

	if d.Running() {
		t.Fatal("daemon must not run before Start")
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon must report running after Start")
	}
	if _, err := os.Stat(d.LockPath()); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon must stop after Stop")
	}
}

func TestStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected error on second Start")
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start first: %v", err)
	}
	defer first.Stop()

	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := daemon.New(nil, nil, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestStopWithoutStartIsHarmless(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	d.Stop()
}
