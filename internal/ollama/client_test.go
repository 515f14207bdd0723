package ollama_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/ollama"
)

func newClient(t *testing.T, handler http.Handler) *ollama.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ollama.NewClient(ollama.Config{
		BaseURL:           server.URL,
		GenerationTimeout: 5 * time.Second,
		PullTimeout:       5 * time.Second,
	})
}

func TestGenerateFoldsStreamedChunks(t *testing.T) {
	var gotBody map[string]any
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"response":"The startup ","done":false}`+"\n")
		io.WriteString(w, `{"response":"sells robots.","done":true}`+"\n")
	}))

	var chunks []string
	text, err := client.Generate(context.Background(), ollama.GenerateRequest{
		Model:  "gemma3:12b",
		Prompt: "describe",
		Images: [][]byte{[]byte("fake png")},
	}, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "The startup sells robots." {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if gotBody["model"] != "gemma3:12b" {
		t.Fatalf("model not sent: %v", gotBody["model"])
	}
	images, ok := gotBody["images"].([]any)
	if !ok || len(images) != 1 {
		t.Fatalf("expected one base64 image, got %v", gotBody["images"])
	}
	if stream, ok := gotBody["stream"].(bool); !ok || !stream {
		t.Fatal("expected streaming request")
	}
}

func TestGenerateSurfacesStreamError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"model not found"}`+"\n")
	}))

	_, err := client.Generate(context.Background(), ollama.GenerateRequest{Model: "missing", Prompt: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestGenerateRequiresModel(t *testing.T) {
	client := ollama.NewClient(ollama.Config{})
	if _, err := client.Generate(context.Background(), ollama.GenerateRequest{Prompt: "x"}, nil); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestGenerateHTTPError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"load failed"}`, http.StatusInternalServerError)
	}))

	_, err := client.Generate(context.Background(), ollama.GenerateRequest{Model: "m", Prompt: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected http status error, got %v", err)
	}
}

func TestListModels(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"models":[
			{"name":"gemma3:12b","size":8149190253,"modified_at":"2026-05-01T10:00:00Z"},
			{"name":"phi4:latest","size":9053116391,"modified_at":"2026-05-02T10:00:00Z"}
		]}`)
	}))

	infos, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 models, got %d", len(infos))
	}
	if infos[0].Name != "gemma3:12b" || infos[0].Size != 8149190253 {
		t.Fatalf("unexpected model entry: %+v", infos[0])
	}
}

func TestPullStreamsProgress(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pull" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"status":"pulling manifest"}`+"\n")
		io.WriteString(w, `{"status":"downloading","total":100,"completed":50}`+"\n")
		io.WriteString(w, `{"status":"success","total":100,"completed":100}`+"\n")
	}))

	var updates []ollama.PullProgress
	err := client.Pull(context.Background(), "gemma3:12b", func(p ollama.PullProgress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 progress updates, got %d", len(updates))
	}
	if updates[1].Completed != 50 || updates[1].Total != 100 {
		t.Fatalf("unexpected progress: %+v", updates[1])
	}
}

func TestPullSurfacesStreamError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"pull model manifest: file does not exist"}`+"\n")
	}))

	err := client.Pull(context.Background(), "ghost:latest", nil)
	if err == nil || !strings.Contains(err.Error(), "file does not exist") {
		t.Fatalf("expected pull error, got %v", err)
	}
}

func TestDeleteUsesDeleteMethod(t *testing.T) {
	var gotMethod string
	var gotName string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotName = body.Name
	}))

	if err := client.Delete(context.Background(), "phi4:latest"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", gotMethod)
	}
	if gotName != "phi4:latest" {
		t.Fatalf("unexpected model name: %q", gotName)
	}
}

func TestPing(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"models":[]}`)
	}))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPingUnreachable(t *testing.T) {
	client := ollama.NewClient(ollama.Config{BaseURL: "http://127.0.0.1:1"})
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error for unreachable runtime")
	}
}
