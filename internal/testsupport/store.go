package testsupport

import (
	"context"
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/bindings"
	"github.com/halbzeit-ai/review-platform/internal/config"
)

// MustOpenBindings opens a bindings.Store for tests and registers cleanup.
func MustOpenBindings(t testing.TB, cfg *config.Config) *bindings.Store {
	t.Helper()

	store, err := bindings.Open(cfg)
	if err != nil {
		t.Fatalf("bindings.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BindModel records a capability binding for tests.
func BindModel(t testing.TB, store *bindings.Store, capability, model string) {
	t.Helper()

	if err := store.SetActiveModel(context.Background(), capability, model); err != nil {
		t.Fatalf("store.SetActiveModel: %v", err)
	}
}
