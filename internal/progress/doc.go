// Package progress exposes a pollable per-job stage/percentage view,
// decoupling "is the job still running" from the terminal status files.
package progress
