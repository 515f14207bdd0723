package command

import (
	"encoding/json"
	"strings"
	"time"
)

// Type enumerates the work the control process can dispatch to the worker.
type Type string

const (
	TypeListModels     Type = "list_models"
	TypePullModel      Type = "pull_model"
	TypeDeleteModel    Type = "delete_model"
	TypeSetActiveModel Type = "set_active_model"
	TypeAnalyze        Type = "analyze"
)

var knownTypes = map[Type]struct{}{
	TypeListModels:     {},
	TypePullModel:      {},
	TypeDeleteModel:    {},
	TypeSetActiveModel: {},
	TypeAnalyze:        {},
}

// ParseType converts a string into a known command Type.
func ParseType(value string) (Type, bool) {
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	_, ok := knownTypes[normalized]
	return normalized, ok
}

// Parameter keys used in Command.Params.
const (
	ParamModel      = "model"
	ParamCapability = "capability"
	ParamFilePath   = "file_path"
	ParamJobID      = "job_id"
)

// Command is one unit of cross-process work, written by the control process
// into the commands directory. The id doubles as the idempotency key.
type Command struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	Params    map[string]string `json:"params,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Param returns a trimmed parameter value, or "" when absent.
func (c Command) Param(key string) string {
	return strings.TrimSpace(c.Params[key])
}

// Status is the worker's answer to exactly one Command, keyed by the same
// id and written into the status directory.
type Status struct {
	ID          string          `json:"id"`
	Success     bool            `json:"success"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// ModelListResult is the payload of a successful list_models status.
type ModelListResult struct {
	Models []ModelEntry `json:"models"`
}

// ModelEntry describes one installed model in a list_models result.
type ModelEntry struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ModelActionResult is the payload of a successful pull, delete, or
// set-active status.
type ModelActionResult struct {
	Model      string `json:"model"`
	Capability string `json:"capability,omitempty"`
	Action     string `json:"action"`
}
