package preflight

import (
	"context"

	"github.com/halbzeit-ai/review-platform/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config: the shared
// exchange directories, the external binaries, and the model runtime.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Commands directory", cfg.Paths.CommandsDir))
	results = append(results, CheckDirectoryAccess("Status directory", cfg.Paths.StatusDir))
	results = append(results, CheckDirectoryAccess("Progress directory", cfg.Paths.ProgressDir))
	if cfg.Paths.ResultsDir != "" {
		results = append(results, CheckDirectoryAccess("Results directory", cfg.Paths.ResultsDir))
	}
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))

	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	results = append(results, CheckOllama(ctx, cfg))

	return results
}
