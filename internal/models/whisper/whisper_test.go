package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultModelsDir(t *testing.T) {
	dir := DefaultModelsDir()

	if strings.Contains(dir, "~") {
		t.Errorf("DefaultModelsDir() contains ~, got %s", dir)
	}
	if !strings.HasSuffix(dir, filepath.Join("neuronote", "models", "whisper")) &&
		dir != filepath.Join("models", "whisper") {
		t.Errorf("DefaultModelsDir() = %s, want path ending with neuronote/models/whisper", dir)
	}
}

func TestDefaultModelIsKnown(t *testing.T) {
	if GetModel(DefaultModelID) == nil {
		t.Fatalf("default model %q is not in the catalogue", DefaultModelID)
	}
}

func TestRegistry_ModelPath(t *testing.T) {
	r := NewRegistry("/models")

	tests := []struct {
		modelID string
		want    string
	}{
		{"base.en", filepath.Join("/models", "ggml-base.en.bin")},
		{"tiny", filepath.Join("/models", "ggml-tiny.bin")},
		{"large-v3", filepath.Join("/models", "ggml-large-v3.bin")},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			if got := r.ModelPath(tt.modelID); got != tt.want {
				t.Errorf("ModelPath(%q) = %s, want %s", tt.modelID, got, tt.want)
			}
		})
	}
}

func TestRegistry_DownloadURL(t *testing.T) {
	r := NewRegistry(t.TempDir())

	tests := []struct {
		modelID string
		wantURL string
	}{
		{"base.en", "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.en.bin"},
		{"tiny", "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			if got := r.DownloadURL(tt.modelID); got != tt.wantURL {
				t.Errorf("DownloadURL(%q) = %s, want %s", tt.modelID, got, tt.wantURL)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	ids := make(map[string]bool)
	for _, m := range ListModels() {
		ids[m.ID] = true
		if m.ID == "" || m.Name == "" || m.Filename == "" || m.Size == "" || m.SizeBytes <= 0 {
			t.Errorf("model %+v has empty fields", m)
		}
	}

	for _, id := range []string{"tiny.en", "base.en", "small.en", "medium.en", "tiny", "base", "small", "medium", "large-v3"} {
		if !ids[id] {
			t.Errorf("ListModels() missing model %s", id)
		}
	}
}

func TestListMultilingualModels(t *testing.T) {
	for _, m := range ListMultilingualModels() {
		if !m.Multilingual {
			t.Errorf("ListMultilingualModels() returned non-multilingual model %s", m.ID)
		}
		if strings.HasSuffix(m.ID, ".en") {
			t.Errorf("ListMultilingualModels() returned english-only model %s", m.ID)
		}
	}
}

func TestRegistry_InstalledLifecycle(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir)

	if r.IsInstalled("base") {
		t.Fatal("IsInstalled(base) = true on empty dir")
	}
	if _, err := r.InstalledPath("base"); err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("InstalledPath error = %v, want not installed", err)
	}

	// empty files do not count as installed
	if err := os.WriteFile(filepath.Join(dir, "ggml-base.bin"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if r.IsInstalled("base") {
		t.Fatal("IsInstalled(base) = true for empty file")
	}

	if err := os.WriteFile(filepath.Join(dir, "ggml-base.bin"), []byte("ggml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !r.IsInstalled("base") {
		t.Fatal("IsInstalled(base) = false after writing model")
	}
	if got := r.ListInstalled(); len(got) != 1 || got[0] != "base" {
		t.Fatalf("ListInstalled() = %v, want [base]", got)
	}

	if err := r.Remove("base"); err != nil {
		t.Fatalf("Remove(base) error = %v", err)
	}
	if r.IsInstalled("base") {
		t.Fatal("IsInstalled(base) = true after Remove")
	}
	if err := r.Remove("base"); err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("second Remove error = %v, want not installed", err)
	}
}

func TestRegistry_UnknownModel(t *testing.T) {
	r := NewRegistry(t.TempDir())

	if err := r.Download(context.Background(), "unknown-model", nil); err == nil || !strings.Contains(err.Error(), "unknown model") {
		t.Errorf("Download error = %v, want unknown model", err)
	}
	if err := r.Remove("unknown-model"); err == nil || !strings.Contains(err.Error(), "unknown model") {
		t.Errorf("Remove error = %v, want unknown model", err)
	}
	if _, err := r.InstalledPath("unknown-model"); err == nil {
		t.Error("InstalledPath(unknown-model) = nil error")
	}
}

func TestRegistry_Download(t *testing.T) {
	payload := strings.Repeat("g", 100_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/ggml-tiny.bin" {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := NewRegistry(dir).WithSource(srv.URL, srv.Client())

	var last int64
	if err := r.Download(context.Background(), "tiny", func(downloaded, total int64) { last = downloaded }); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if last != int64(len(payload)) {
		t.Errorf("progress reported %d bytes, want %d", last, len(payload))
	}

	data, err := os.ReadFile(filepath.Join(dir, "ggml-tiny.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Error("downloaded content mismatch")
	}
	if _, err := os.Stat(filepath.Join(dir, "ggml-tiny.bin.downloading")); !os.IsNotExist(err) {
		t.Error("temp download file left behind")
	}
}

func TestRegistry_DownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	r := NewRegistry(dir).WithSource(srv.URL, srv.Client())

	err := r.Download(context.Background(), "tiny", nil)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("Download error = %v, want status 404", err)
	}
	if r.IsInstalled("tiny") {
		t.Error("failed download left an installed model")
	}
}

func TestRegistry_DownloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRegistry(t.TempDir()).WithSource("http://127.0.0.1:1", nil)
	if err := r.Download(ctx, "tiny.en", nil); err == nil {
		t.Error("Download with cancelled context = nil, want error")
	}
}
