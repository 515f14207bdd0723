package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/halbzeit-ai/review-platform/internal/config"
	"github.com/halbzeit-ai/review-platform/internal/deps"
	"github.com/halbzeit-ai/review-platform/internal/ollama"
)

// CheckOllama verifies that the model runtime is reachable. It uses a
// 5-second timeout and a single attempt.
func CheckOllama(ctx context.Context, cfg *config.Config) Result {
	const name = "Ollama runtime"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := ollama.NewClient(ollama.Config{BaseURL: cfg.Ollama.BaseURL})
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeRuntimeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Ollama.BaseURL}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries the worker shells out to.
// Both the daemon startup path and the CLI doctor command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "pdftoppm",
			Command:     cfg.Render.PdftoppmBinary,
			Description: "Required for rendering deck pages",
		},
	}
	return deps.CheckBinaries(requirements)
}

// summarizeRuntimeError produces a human-readable summary for runtime
// reachability failures.
func summarizeRuntimeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "ping timed out (runtime unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ping timed out (runtime unreachable)"
	}
	return err.Error()
}
