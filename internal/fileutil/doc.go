// Package fileutil provides atomic file write helpers for the shared
// command, status, and progress directories.
package fileutil
