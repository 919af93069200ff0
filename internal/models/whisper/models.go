package whisper

import (
	"os"
	"path/filepath"
)

// DefaultModelID is the model loaded when nothing else is configured and
// the last fallback tried at startup.
const DefaultModelID = "base"

// ModelInfo holds metadata for a whisper model
type ModelInfo struct {
	ID           string // model identifier (e.g., "base.en")
	Name         string // display name (e.g., "Base English")
	Filename     string // file name (e.g., "ggml-base.en.bin")
	Size         string // human readable size
	SizeBytes    int64  // size in bytes for progress tracking
	Multilingual bool
}

// ggml models published at huggingface.co/ggerganov/whisper.cpp
var models = []ModelInfo{
	{ID: "tiny.en", Name: "Tiny English", Filename: "ggml-tiny.en.bin", Size: "75MB", SizeBytes: 75_000_000},
	{ID: "base.en", Name: "Base English", Filename: "ggml-base.en.bin", Size: "142MB", SizeBytes: 142_000_000},
	{ID: "small.en", Name: "Small English", Filename: "ggml-small.en.bin", Size: "466MB", SizeBytes: 466_000_000},
	{ID: "medium.en", Name: "Medium English", Filename: "ggml-medium.en.bin", Size: "1.5GB", SizeBytes: 1_500_000_000},

	{ID: "tiny", Name: "Tiny", Filename: "ggml-tiny.bin", Size: "75MB", SizeBytes: 75_000_000, Multilingual: true},
	{ID: "base", Name: "Base", Filename: "ggml-base.bin", Size: "142MB", SizeBytes: 142_000_000, Multilingual: true},
	{ID: "small", Name: "Small", Filename: "ggml-small.bin", Size: "466MB", SizeBytes: 466_000_000, Multilingual: true},
	{ID: "medium", Name: "Medium", Filename: "ggml-medium.bin", Size: "1.5GB", SizeBytes: 1_500_000_000, Multilingual: true},
	{ID: "large-v3", Name: "Large V3", Filename: "ggml-large-v3.bin", Size: "3GB", SizeBytes: 3_000_000_000, Multilingual: true},
	{ID: "large-v3-turbo", Name: "Large V3 Turbo", Filename: "ggml-large-v3-turbo.bin", Size: "1.6GB", SizeBytes: 1_600_000_000, Multilingual: true},
}

var modelByID = func() map[string]ModelInfo {
	m := make(map[string]ModelInfo, len(models))
	for _, model := range models {
		m[model.ID] = model
	}
	return m
}()

// DefaultDownloadURL is the base URL models are fetched from.
const DefaultDownloadURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// DefaultModelsDir returns ~/.local/share/neuronote/models/whisper, or a
// relative models/whisper when the home directory is unknown.
func DefaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("models", "whisper")
	}
	return filepath.Join(home, ".local", "share", "neuronote", "models", "whisper")
}

// GetModel returns info for a model by ID, or nil if the ID is unknown.
func GetModel(modelID string) *ModelInfo {
	info, ok := modelByID[modelID]
	if !ok {
		return nil
	}
	return &info
}

// ListModels returns all known whisper models
func ListModels() []ModelInfo {
	result := make([]ModelInfo, len(models))
	copy(result, models)
	return result
}

// ListMultilingualModels returns models that support multiple languages
func ListMultilingualModels() []ModelInfo {
	var result []ModelInfo
	for _, m := range models {
		if m.Multilingual {
			result = append(result, m)
		}
	}
	return result
}
