package main

import (
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/testsupport"
)

func TestBuildWorkerWiresDependencyGraph(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	worker, cleanup, err := buildWorker(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("buildWorker: %v", err)
	}
	defer cleanup()

	if worker == nil {
		t.Fatal("expected a worker")
	}
}

func TestBuildWorkerRejectsEmptyRasterizerBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Render.PdftoppmBinary = ""

	if _, _, err := buildWorker(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for empty pdftoppm binary")
	}
}
