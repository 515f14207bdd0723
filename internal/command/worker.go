package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/bindings"
	"github.com/halbzeit-ai/review-platform/internal/fileutil"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/models"
	"github.com/halbzeit-ai/review-platform/internal/notify"
	"github.com/halbzeit-ai/review-platform/internal/ollama"
)

// Runtime is the model-lifecycle surface the worker needs from the runtime
// client.
type Runtime interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
	Pull(ctx context.Context, model string, onProgress func(ollama.PullProgress)) error
	Delete(ctx context.Context, model string) error
}

// AnalysisRunner runs one deck analysis job to completion.
type AnalysisRunner interface {
	Run(ctx context.Context, job analysis.Job) (*analysis.Result, error)
}

// Worker is the GPU-side consumer of the command channel. It polls the
// commands directory on a fixed interval and executes commands strictly
// serially: the model runtime behind it is an exclusive resource.
type Worker struct {
	commandsDir  string
	statusDir    string
	resultsDir   string
	pollInterval time.Duration

	runtime  Runtime
	runner   AnalysisRunner
	bindings *bindings.Store
	notifier notify.Service
	logger   *slog.Logger

	// seen tracks command ids already answered in this process; a matching
	// status file on disk covers ids answered before a restart.
	seen map[string]struct{}
}

// NewWorker constructs a command worker.
func NewWorker(commandsDir, statusDir, resultsDir string, pollInterval time.Duration, runtime Runtime, runner AnalysisRunner, bindingStore *bindings.Store, notifier notify.Service, logger *slog.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Worker{
		commandsDir:  commandsDir,
		statusDir:    statusDir,
		resultsDir:   resultsDir,
		pollInterval: pollInterval,
		runtime:      runtime,
		runner:       runner,
		bindings:     bindingStore,
		notifier:     notifier,
		logger:       logging.NewComponentLogger(logger, "command-worker"),
		seen:         make(map[string]struct{}),
	}
}

// Run polls for commands until the context ends. A failing command never
// terminates the loop; only context cancellation does.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("command worker started",
		logging.String("commands_dir", w.commandsDir),
		logging.Duration("poll_interval", w.pollInterval),
	)

	for {
		processed, err := w.ScanOnce(ctx)
		if err != nil {
			w.logger.Error("command scan failed",
				logging.String(logging.FieldEventType, "scan_failed"),
				logging.String(logging.FieldErrorHint, "check shared directory access"),
				logging.Error(err),
			)
		}
		if processed {
			// Drain queued commands before sleeping again.
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				continue
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.pollInterval):
		}
	}
}

// ScanOnce lists the commands directory and executes the oldest unprocessed
// command, if any. It reports whether a command was executed.
func (w *Worker) ScanOnce(ctx context.Context) (bool, error) {
	entries, err := os.ReadDir(w.commandsDir)
	if err != nil {
		return false, fmt.Errorf("read commands directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if _, ok := w.seen[id]; ok {
			continue
		}
		if w.statusExists(id) {
			// Answered before a restart; never re-execute.
			w.markProcessed(id)
			continue
		}

		cmdPath := filepath.Join(w.commandsDir, name)
		var cmd Command
		if err := fileutil.ReadJSON(cmdPath, &cmd); err != nil {
			w.logger.Warn("skipping malformed command file",
				logging.String(logging.FieldCommandID, id),
				logging.Error(err),
			)
			w.seen[id] = struct{}{}
			continue
		}
		if cmd.ID == "" {
			cmd.ID = id
		}

		status := w.execute(ctx, cmd)
		if err := w.writeStatus(status); err != nil {
			// Leave the command unprocessed: the next scan retries, and the
			// status-file check prevents double execution once it lands.
			return false, fmt.Errorf("write status for %s: %w", cmd.ID, err)
		}
		w.markProcessed(cmd.ID)
		return true, nil
	}
	return false, nil
}

func (w *Worker) statusExists(id string) bool {
	_, err := os.Stat(filepath.Join(w.statusDir, id+".json"))
	return err == nil
}

func (w *Worker) markProcessed(id string) {
	w.seen[id] = struct{}{}
	if err := os.Remove(filepath.Join(w.commandsDir, id+".json")); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Warn("failed to remove processed command file",
			logging.String(logging.FieldCommandID, id),
			logging.Error(err),
		)
	}
}

func (w *Worker) writeStatus(status *Status) error {
	return fileutil.WriteJSONAtomic(filepath.Join(w.statusDir, status.ID+".json"), status)
}

// execute dispatches one command by type. Errors and panics are contained
// per command and converted into a failed status.
func (w *Worker) execute(ctx context.Context, cmd Command) (status *Status) {
	logger := w.logger.With(
		logging.String(logging.FieldCommandID, cmd.ID),
		logging.String(logging.FieldCommandType, string(cmd.Type)),
	)
	started := time.Now()
	logger.Info("command started", logging.String(logging.FieldEventType, "command_start"))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked",
				logging.String(logging.FieldEventType, "command_panic"),
				logging.Any("panic", r),
			)
			status = w.failure(cmd.ID, fmt.Errorf("internal error: %v", r))
		}
	}()

	var (
		result any
		err    error
	)
	switch cmd.Type {
	case TypeListModels:
		result, err = w.listModels(ctx)
	case TypePullModel:
		result, err = w.pullModel(ctx, cmd)
	case TypeDeleteModel:
		result, err = w.deleteModel(ctx, cmd)
	case TypeSetActiveModel:
		result, err = w.setActiveModel(ctx, cmd)
	case TypeAnalyze:
		result, err = w.analyze(ctx, cmd)
	default:
		err = fmt.Errorf("unsupported command type %q", cmd.Type)
	}

	if err != nil {
		logger.Error("command failed",
			logging.String(logging.FieldEventType, "command_failed"),
			logging.Duration("command_duration", time.Since(started)),
			logging.Error(err),
		)
		return w.failure(cmd.ID, err)
	}

	payload, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return w.failure(cmd.ID, fmt.Errorf("marshal result: %w", marshalErr))
	}

	logger.Info("command completed",
		logging.String(logging.FieldEventType, "command_complete"),
		logging.Duration("command_duration", time.Since(started)),
	)
	return &Status{
		ID:          cmd.ID,
		Success:     true,
		Result:      payload,
		CompletedAt: time.Now().UTC(),
	}
}

func (w *Worker) failure(id string, err error) *Status {
	return &Status{
		ID:          id,
		Success:     false,
		Error:       err.Error(),
		CompletedAt: time.Now().UTC(),
	}
}

func (w *Worker) listModels(ctx context.Context) (ModelListResult, error) {
	installed, err := w.runtime.ListModels(ctx)
	if err != nil {
		return ModelListResult{}, err
	}
	result := ModelListResult{Models: make([]ModelEntry, 0, len(installed))}
	for _, model := range installed {
		result.Models = append(result.Models, ModelEntry{
			Name:       model.Name,
			Size:       model.Size,
			ModifiedAt: model.ModifiedAt,
		})
	}
	return result, nil
}

func (w *Worker) pullModel(ctx context.Context, cmd Command) (ModelActionResult, error) {
	model := cmd.Param(ParamModel)
	if model == "" {
		return ModelActionResult{}, errors.New("pull_model requires a model parameter")
	}

	lastDecade := -1
	err := w.runtime.Pull(ctx, model, func(p ollama.PullProgress) {
		if p.Total <= 0 {
			return
		}
		decade := int(float64(p.Completed) / float64(p.Total) * 10)
		if decade > lastDecade {
			lastDecade = decade
			w.logger.Info("model pull progress",
				logging.String(logging.FieldModel, model),
				logging.String("status", p.Status),
				logging.Int("percent", decade*10),
			)
		}
	})
	if err != nil {
		return ModelActionResult{}, err
	}

	if err := w.notifier.NotifyModelPulled(ctx, model); err != nil {
		w.logger.Warn("model pull notification failed", logging.Error(err))
	}
	return ModelActionResult{Model: model, Action: "pulled"}, nil
}

func (w *Worker) deleteModel(ctx context.Context, cmd Command) (ModelActionResult, error) {
	model := cmd.Param(ParamModel)
	if model == "" {
		return ModelActionResult{}, errors.New("delete_model requires a model parameter")
	}
	if err := w.runtime.Delete(ctx, model); err != nil {
		return ModelActionResult{}, err
	}
	return ModelActionResult{Model: model, Action: "deleted"}, nil
}

func (w *Worker) setActiveModel(ctx context.Context, cmd Command) (ModelActionResult, error) {
	capability, ok := models.ParseCapability(cmd.Param(ParamCapability))
	if !ok {
		return ModelActionResult{}, fmt.Errorf("unknown capability %q", cmd.Param(ParamCapability))
	}
	model := cmd.Param(ParamModel)
	if model == "" {
		return ModelActionResult{}, errors.New("set_active_model requires a model parameter")
	}
	if w.bindings == nil {
		return ModelActionResult{}, errors.New("bindings store unavailable")
	}
	if err := w.bindings.SetActiveModel(ctx, string(capability), model); err != nil {
		return ModelActionResult{}, err
	}
	return ModelActionResult{Model: model, Capability: string(capability), Action: "bound"}, nil
}

func (w *Worker) analyze(ctx context.Context, cmd Command) (*analysis.Result, error) {
	filePath := cmd.Param(ParamFilePath)
	if filePath == "" {
		return nil, errors.New("analyze requires a file_path parameter")
	}
	jobID := cmd.Param(ParamJobID)
	if jobID == "" {
		jobID = cmd.ID
	}

	job := analysis.Job{ID: jobID, FilePath: filePath, CreatedAt: cmd.CreatedAt}
	result, err := w.runner.Run(ctx, job)
	if err != nil {
		if notifyErr := w.notifier.NotifyAnalysisFailed(ctx, jobID, err.Error()); notifyErr != nil {
			w.logger.Warn("failure notification failed", logging.Error(notifyErr))
		}
		return nil, err
	}

	if w.resultsDir != "" {
		resultPath := filepath.Join(w.resultsDir, jobID+"_results.json")
		if err := fileutil.WriteJSONAtomic(resultPath, result); err != nil {
			w.logger.Warn("failed to persist result document",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(err),
			)
		}
	}

	duration := time.Duration(result.ProcessingMetadata.ProcessingTime * float64(time.Second))
	if err := w.notifier.NotifyAnalysisCompleted(ctx, jobID, result.ProcessingMetadata.TotalPagesAnalyzed, duration); err != nil {
		w.logger.Warn("completion notification failed", logging.Error(err))
	}
	return result, nil
}
