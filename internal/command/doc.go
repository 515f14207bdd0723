// Package command implements the filesystem-mediated request/response
// protocol between the control process and the GPU worker: atomic command
// publication, a serial poll loop, and idempotent status answers keyed by
// command id.
package command
