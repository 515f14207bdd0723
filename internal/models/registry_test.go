package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/models"
)

type stubSource struct {
	bindings map[string]string
	err      error
}

func (s *stubSource) ActiveModel(_ context.Context, capability string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.bindings[capability], nil
}

func TestResolveUsesStoredBinding(t *testing.T) {
	source := &stubSource{bindings: map[string]string{"vision": "llava:13b"}}
	registry := models.NewRegistry(source, logging.NewNop())

	if got := registry.Resolve(context.Background(), models.CapabilityVision); got != "llava:13b" {
		t.Fatalf("expected stored binding, got %q", got)
	}
}

func TestResolveFallsBackWhenUnbound(t *testing.T) {
	registry := models.NewRegistry(&stubSource{bindings: map[string]string{}}, logging.NewNop())

	if got := registry.Resolve(context.Background(), models.CapabilityReport); got != "gemma3:12b" {
		t.Fatalf("expected default report model, got %q", got)
	}
	if got := registry.Resolve(context.Background(), models.CapabilityScoring); got != "phi4:latest" {
		t.Fatalf("expected default scoring model, got %q", got)
	}
}

func TestResolveFallsBackOnStoreError(t *testing.T) {
	source := &stubSource{err: errors.New("database is locked")}
	registry := models.NewRegistry(source, logging.NewNop())

	if got := registry.Resolve(context.Background(), models.CapabilityScience); got != "phi4:latest" {
		t.Fatalf("expected default on store error, got %q", got)
	}
}

func TestResolveWithNilSource(t *testing.T) {
	registry := models.NewRegistry(nil, logging.NewNop())
	if got := registry.Resolve(context.Background(), models.CapabilityVision); got != "gemma3:12b" {
		t.Fatalf("expected default with nil source, got %q", got)
	}
}

func TestParseCapability(t *testing.T) {
	cases := []struct {
		in   string
		want models.Capability
		ok   bool
	}{
		{"vision", models.CapabilityVision, true},
		{" Report ", models.CapabilityReport, true},
		{"SCORING", models.CapabilityScoring, true},
		{"science", models.CapabilityScience, true},
		{"speech", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := models.ParseCapability(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseCapability(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDefaultModelCoversEveryCapability(t *testing.T) {
	for _, capability := range models.Capabilities() {
		if models.DefaultModel(capability) == "" {
			t.Fatalf("no default for capability %q", capability)
		}
	}
}
