package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/leonardotrapani/neuronote/internal/models/whisper"
)

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

const (
	ProviderWhisperCpp = "whisper-cpp"
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
)

// Configuration for a transcription backend
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Language string // empty means auto-detect
	Threads  int    // whisper-cpp CPU threads, 0 lets whisper-cli choose

	// whisper-cpp model location and behaviour
	ModelsDir    string
	AutoDownload bool
	Serialize    bool
	Binary       string

	// BaseURL overrides the provider endpoint for API backends
	BaseURL string
}

func DefaultConfig() Config {
	return Config{
		Provider:  ProviderWhisperCpp,
		Model:     whisper.DefaultModelID,
		Serialize: true,
	}
}

// DefaultModel returns the model tried when the configured one fails.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "whisper-1"
	case ProviderGroq:
		return "whisper-large-v3-turbo"
	default:
		return whisper.DefaultModelID
	}
}

// ErrModelUnavailable is the cause of every call on a service whose model
// never loaded.
var ErrModelUnavailable = errors.New("transcription model unavailable")

// Opener initializes a backend for one candidate configuration.
type Opener func(ctx context.Context, cfg Config) (Transcriber, error)

// OpenBackend is the production Opener.
func OpenBackend(ctx context.Context, cfg Config) (Transcriber, error) {
	switch cfg.Provider {
	case ProviderWhisperCpp, "":
		return openWhisperCpp(ctx, cfg)

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(cfg), nil

	case ProviderGroq:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Groq API key required")
		}
		return NewGroqAdapter(cfg), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func openWhisperCpp(ctx context.Context, cfg Config) (Transcriber, error) {
	if whisper.GetModel(cfg.Model) == nil {
		return nil, fmt.Errorf("unknown whisper model: %s", cfg.Model)
	}

	registry := whisper.NewRegistry(cfg.ModelsDir)
	modelPath, err := registry.InstalledPath(cfg.Model)
	if err != nil {
		if !cfg.AutoDownload {
			return nil, err
		}
		if err := registry.Download(ctx, cfg.Model, nil); err != nil {
			return nil, fmt.Errorf("download model %s: %w", cfg.Model, err)
		}
		modelPath = registry.ModelPath(cfg.Model)
	}

	binary := cfg.Binary
	if binary == "" {
		binary = "whisper-cli"
	}
	binPath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%s not found: install whisper.cpp first", binary)
	}

	return NewWhisperCppAdapter(WhisperCppOptions{
		ModelPath: modelPath,
		Binary:    binPath,
		Language:  cfg.Language,
		Threads:   cfg.Threads,
		Serialize: cfg.Serialize,
	}), nil
}

// Candidates returns the configurations tried at startup, in order: the
// configured model, then the provider default if it differs.
func Candidates(cfg Config) []Config {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	out := []Config{cfg}

	if def := DefaultModel(cfg.Provider); def != cfg.Model {
		fallback := cfg
		fallback.Model = def
		out = append(out, fallback)
	}
	return out
}
