package models

import (
	"context"
	"log/slog"
	"strings"

	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// Capability names a role a model fulfills in the analysis pipeline.
type Capability string

const (
	CapabilityVision  Capability = "vision"
	CapabilityReport  Capability = "report"
	CapabilityScoring Capability = "scoring"
	CapabilityScience Capability = "science"
)

// Capabilities returns all known capability classes.
func Capabilities() []Capability {
	return []Capability{CapabilityVision, CapabilityReport, CapabilityScoring, CapabilityScience}
}

// ParseCapability converts a string into a known Capability.
func ParseCapability(value string) (Capability, bool) {
	normalized := Capability(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case CapabilityVision, CapabilityReport, CapabilityScoring, CapabilityScience:
		return normalized, true
	}
	return "", false
}

// Built-in fallbacks used when no binding is stored or the store is
// unreachable. Operators override these through the bindings store.
var defaultModels = map[Capability]string{
	CapabilityVision:  "gemma3:12b",
	CapabilityReport:  "gemma3:12b",
	CapabilityScoring: "phi4:latest",
	CapabilityScience: "phi4:latest",
}

// DefaultModel returns the built-in default for a capability.
func DefaultModel(capability Capability) string {
	return defaultModels[capability]
}

// BindingSource is the read contract the registry needs from the
// configuration store.
type BindingSource interface {
	ActiveModel(ctx context.Context, capability string) (string, error)
}

// Registry resolves the active model identifier per capability class. A
// missing override is not an error; a store failure is logged and swallowed
// so the pipeline can always run on the built-in defaults.
type Registry struct {
	source BindingSource
	logger *slog.Logger
}

// NewRegistry constructs a registry backed by the given binding source.
// A nil source resolves every capability to its built-in default.
func NewRegistry(source BindingSource, logger *slog.Logger) *Registry {
	return &Registry{
		source: source,
		logger: logging.NewComponentLogger(logger, "model-registry"),
	}
}

// Resolve returns the active model identifier for a capability.
func (r *Registry) Resolve(ctx context.Context, capability Capability) string {
	fallback := defaultModels[capability]
	if r == nil || r.source == nil {
		return fallback
	}

	model, err := r.source.ActiveModel(ctx, string(capability))
	if err != nil {
		r.logger.Warn("binding store unreachable, using default model",
			logging.String(logging.FieldCapability, string(capability)),
			logging.String(logging.FieldModel, fallback),
			logging.Error(err),
		)
		return fallback
	}
	if strings.TrimSpace(model) == "" {
		return fallback
	}
	return model
}
