// Package logging wraps log/slog with typed attribute helpers and the
// standardized field names used across the worker and control CLI.
package logging
