package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePages creates numbered page image files under dir and returns their
// paths in page order.
func WritePages(t testing.TB, dir string, count int) []string {
	t.Helper()

	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("page-%d.png", i))
		WriteFile(t, path, []byte(fmt.Sprintf("png page %d", i)))
		paths = append(paths, path)
	}
	return paths
}
