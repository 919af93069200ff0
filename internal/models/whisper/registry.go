package whisper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc is called during download with bytes downloaded and total
type ProgressFunc func(downloaded, total int64)

// Registry manages the model files installed in one directory.
type Registry struct {
	dir     string
	baseURL string
	client  *http.Client
}

// NewRegistry returns a registry for dir; an empty dir uses DefaultModelsDir.
func NewRegistry(dir string) *Registry {
	if dir == "" {
		dir = DefaultModelsDir()
	}
	return &Registry{
		dir:     dir,
		baseURL: DefaultDownloadURL,
		client:  http.DefaultClient,
	}
}

// WithSource points downloads at another base URL and HTTP client.
func (r *Registry) WithSource(baseURL string, client *http.Client) *Registry {
	cp := *r
	if baseURL != "" {
		cp.baseURL = strings.TrimRight(baseURL, "/")
	}
	if client != nil {
		cp.client = client
	}
	return &cp
}

func (r *Registry) Dir() string { return r.dir }

// ModelPath returns the file path for a model, or "" for unknown IDs.
func (r *Registry) ModelPath(modelID string) string {
	info := GetModel(modelID)
	if info == nil {
		return ""
	}
	return filepath.Join(r.dir, info.Filename)
}

// DownloadURL returns the download URL for a model, or "" for unknown IDs.
func (r *Registry) DownloadURL(modelID string) string {
	info := GetModel(modelID)
	if info == nil {
		return ""
	}
	return r.baseURL + "/" + info.Filename
}

// IsInstalled returns true if the model file exists and is non-empty.
func (r *Registry) IsInstalled(modelID string) bool {
	path := r.ModelPath(modelID)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// ListInstalled returns IDs of all installed models
func (r *Registry) ListInstalled() []string {
	var installed []string
	for _, m := range models {
		if r.IsInstalled(m.ID) {
			installed = append(installed, m.ID)
		}
	}
	return installed
}

// InstalledPath returns the path to an installed model.
func (r *Registry) InstalledPath(modelID string) (string, error) {
	if GetModel(modelID) == nil {
		return "", fmt.Errorf("unknown model: %s", modelID)
	}
	if !r.IsInstalled(modelID) {
		return "", fmt.Errorf("model not installed: %s (run: neuronote models download %s)", modelID, modelID)
	}
	return r.ModelPath(modelID), nil
}

// Download fetches a model into the registry directory. The file only
// appears under its final name once fully written. onProgress may be nil.
func (r *Registry) Download(ctx context.Context, modelID string, onProgress ProgressFunc) error {
	info := GetModel(modelID)
	if info == nil {
		return fmt.Errorf("unknown model: %s", modelID)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	destPath := filepath.Join(r.dir, info.Filename)
	tempPath := destPath + ".downloading"

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		out.Close()
		os.Remove(tempPath)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.DownloadURL(modelID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s", resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = info.SizeBytes
	}

	var downloaded int64
	buf := make([]byte, 32*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write: %w", err)
			}
			downloaded += int64(n)
			if onProgress != nil {
				onProgress(downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("failed to finalize download: %w", err)
	}

	return nil
}

// Remove deletes a downloaded model
func (r *Registry) Remove(modelID string) error {
	if GetModel(modelID) == nil {
		return fmt.Errorf("unknown model: %s", modelID)
	}
	if !r.IsInstalled(modelID) {
		return fmt.Errorf("model not installed: %s", modelID)
	}
	if err := os.Remove(r.ModelPath(modelID)); err != nil {
		return fmt.Errorf("failed to remove model: %w", err)
	}
	return nil
}
