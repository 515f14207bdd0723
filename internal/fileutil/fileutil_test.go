package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/halbzeit-ai/review-platform/internal/fileutil"
)

func TestWriteFileAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")

	if err := fileutil.WriteFileAtomic(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("y"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "payload.json" {
		t.Fatalf("expected only payload.json, got %v", entries)
	}
}

func TestWriteJSONAtomicAndReadJSON(t *testing.T) {
	type doc struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	if err := fileutil.WriteJSONAtomic(path, doc{ID: "abc", Count: 3}); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}

	var got doc
	if err := fileutil.ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.ID != "abc" || got.Count != 3 {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	var v map[string]string
	err := fileutil.ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &v)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var v map[string]string
	if err := fileutil.ReadJSON(path, &v); err == nil {
		t.Fatal("expected parse error")
	}
}
