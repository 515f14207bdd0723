// Package config loads, validates, and defaults the TOML configuration
// shared by the worker daemon and the control CLI.
package config
