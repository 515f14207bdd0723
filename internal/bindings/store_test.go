package bindings_test

import (
	"context"
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/testsupport"
)

func TestActiveModelUnboundReturnsEmpty(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))

	model, err := store.ActiveModel(context.Background(), "vision")
	if err != nil {
		t.Fatalf("ActiveModel: %v", err)
	}
	if model != "" {
		t.Fatalf("expected empty binding, got %q", model)
	}
}

func TestSetActiveModelUpserts(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.SetActiveModel(ctx, "vision", "llava:13b"); err != nil {
		t.Fatalf("SetActiveModel: %v", err)
	}
	if err := store.SetActiveModel(ctx, "vision", "gemma3:27b"); err != nil {
		t.Fatalf("SetActiveModel update: %v", err)
	}

	model, err := store.ActiveModel(ctx, "vision")
	if err != nil {
		t.Fatalf("ActiveModel: %v", err)
	}
	if model != "gemma3:27b" {
		t.Fatalf("expected latest binding, got %q", model)
	}
}

func TestSetActiveModelNormalizesCapability(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.SetActiveModel(ctx, " Scoring ", "phi4:latest"); err != nil {
		t.Fatalf("SetActiveModel: %v", err)
	}
	model, err := store.ActiveModel(ctx, "scoring")
	if err != nil {
		t.Fatalf("ActiveModel: %v", err)
	}
	if model != "phi4:latest" {
		t.Fatalf("expected normalized lookup to hit, got %q", model)
	}
}

func TestSetActiveModelRejectsEmptyArguments(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.SetActiveModel(ctx, "", "model"); err == nil {
		t.Fatal("expected error for empty capability")
	}
	if err := store.SetActiveModel(ctx, "vision", "  "); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestClearActiveModel(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.BindModel(t, store, "report", "mistral:7b")
	if err := store.ClearActiveModel(ctx, "report"); err != nil {
		t.Fatalf("ClearActiveModel: %v", err)
	}

	model, err := store.ActiveModel(ctx, "report")
	if err != nil {
		t.Fatalf("ActiveModel: %v", err)
	}
	if model != "" {
		t.Fatalf("expected cleared binding, got %q", model)
	}
}

func TestList(t *testing.T) {
	store := testsupport.MustOpenBindings(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.BindModel(t, store, "vision", "llava:13b")
	testsupport.BindModel(t, store, "science", "deepseek-r1:14b")

	bindings, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if bindings["vision"] != "llava:13b" || bindings["science"] != "deepseek-r1:14b" {
		t.Fatalf("unexpected bindings: %v", bindings)
	}
}
