// Package daemon supervises the command worker and enforces that only one
// worker instance owns the model runtime at a time.
package daemon
