package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/halbzeit-ai/review-platform/internal/fileutil"
	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// ErrStatusPending is returned when no status file exists yet for a command.
var ErrStatusPending = errors.New("status not yet available")

// Dispatcher is the control-process side of the channel: it publishes
// commands and reads back statuses over the shared directories.
type Dispatcher struct {
	commandsDir string
	statusDir   string
	logger      *slog.Logger
}

// NewDispatcher constructs a dispatcher over the shared directory pair.
func NewDispatcher(commandsDir, statusDir string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		commandsDir: commandsDir,
		statusDir:   statusDir,
		logger:      logging.NewComponentLogger(logger, "dispatcher"),
	}
}

// Dispatch publishes a new command with a fresh id and returns it. The file
// is written with the atomic create-temp-then-rename pattern and is never
// overwritten: a duplicate id is a hard error.
func (d *Dispatcher) Dispatch(cmdType Type, params map[string]string) (*Command, error) {
	if _, ok := knownTypes[cmdType]; !ok {
		return nil, fmt.Errorf("unknown command type %q", cmdType)
	}

	cmd := &Command{
		ID:        uuid.NewString(),
		Type:      cmdType,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}

	path := filepath.Join(d.commandsDir, cmd.ID+".json")
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("command %s already exists", cmd.ID)
	}
	if err := fileutil.WriteJSONAtomic(path, cmd); err != nil {
		return nil, fmt.Errorf("publish command: %w", err)
	}

	d.logger.Info("command dispatched",
		logging.String(logging.FieldCommandID, cmd.ID),
		logging.String(logging.FieldCommandType, string(cmd.Type)),
	)
	return cmd, nil
}

// Status reads the status for a command id. ErrStatusPending is returned
// while the worker has not answered yet.
func (d *Dispatcher) Status(id string) (*Status, error) {
	var status Status
	err := fileutil.ReadJSON(filepath.Join(d.statusDir, id+".json"), &status)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrStatusPending
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForStatus polls until the worker answers or the context ends.
func (d *Dispatcher) WaitForStatus(ctx context.Context, id string, interval time.Duration) (*Status, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := d.Status(id)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, ErrStatusPending) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// RemoveStatus deletes a consumed status file.
func (d *Dispatcher) RemoveStatus(id string) error {
	err := os.Remove(filepath.Join(d.statusDir, id+".json"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove status %s: %w", id, err)
	}
	return nil
}
