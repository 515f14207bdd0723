package command_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/command"
	"github.com/halbzeit-ai/review-platform/internal/fileutil"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/testsupport"
)

func newDispatcher(t *testing.T) (*command.Dispatcher, string, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return command.NewDispatcher(cfg.Paths.CommandsDir, cfg.Paths.StatusDir, logging.NewNop()),
		cfg.Paths.CommandsDir, cfg.Paths.StatusDir
}

func TestDispatchWritesCommandFile(t *testing.T) {
	dispatcher, commandsDir, _ := newDispatcher(t)

	cmd, err := dispatcher.Dispatch(command.TypePullModel, map[string]string{command.ParamModel: "gemma3:12b"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if cmd.ID == "" {
		t.Fatal("expected generated command id")
	}

	var stored command.Command
	if err := fileutil.ReadJSON(filepath.Join(commandsDir, cmd.ID+".json"), &stored); err != nil {
		t.Fatalf("read command file: %v", err)
	}
	if stored.ID != cmd.ID || stored.Type != command.TypePullModel {
		t.Fatalf("unexpected stored command: %+v", stored)
	}
	if stored.Params[command.ParamModel] != "gemma3:12b" {
		t.Fatalf("params not persisted: %v", stored.Params)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}

func TestDispatchRejectsUnknownType(t *testing.T) {
	dispatcher, _, _ := newDispatcher(t)
	if _, err := dispatcher.Dispatch(command.Type("reboot"), nil); err == nil {
		t.Fatal("expected error for unknown command type")
	}
}

func TestStatusPendingUntilAnswered(t *testing.T) {
	dispatcher, _, statusDir := newDispatcher(t)

	cmd, err := dispatcher.Dispatch(command.TypeListModels, nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if _, err := dispatcher.Status(cmd.ID); !errors.Is(err, command.ErrStatusPending) {
		t.Fatalf("expected ErrStatusPending, got %v", err)
	}

	answer := command.Status{ID: cmd.ID, Success: true, CompletedAt: time.Now().UTC()}
	if err := fileutil.WriteJSONAtomic(filepath.Join(statusDir, cmd.ID+".json"), answer); err != nil {
		t.Fatalf("write status: %v", err)
	}

	status, err := dispatcher.Status(cmd.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.ID != cmd.ID || !status.Success {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestWaitForStatusReturnsAnswer(t *testing.T) {
	dispatcher, _, statusDir := newDispatcher(t)

	answer := command.Status{ID: "abc", Success: false, Error: "boom", CompletedAt: time.Now().UTC()}
	if err := fileutil.WriteJSONAtomic(filepath.Join(statusDir, "abc.json"), answer); err != nil {
		t.Fatalf("write status: %v", err)
	}

	status, err := dispatcher.WaitForStatus(context.Background(), "abc", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForStatus: %v", err)
	}
	if status.Error != "boom" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestWaitForStatusHonorsContext(t *testing.T) {
	dispatcher, _, _ := newDispatcher(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := dispatcher.WaitForStatus(ctx, "never", 5*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestRemoveStatusIdempotent(t *testing.T) {
	dispatcher, _, statusDir := newDispatcher(t)

	if err := fileutil.WriteJSONAtomic(filepath.Join(statusDir, "gone.json"), command.Status{ID: "gone"}); err != nil {
		t.Fatalf("write status: %v", err)
	}
	if err := dispatcher.RemoveStatus("gone"); err != nil {
		t.Fatalf("RemoveStatus: %v", err)
	}
	if err := dispatcher.RemoveStatus("gone"); err != nil {
		t.Fatalf("RemoveStatus on missing file: %v", err)
	}
}
