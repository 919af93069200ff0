package config

import (
	"fmt"
	"strings"

	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/language"
	"github.com/leonardotrapani/neuronote/internal/models/whisper"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true, "critical": true,
}

// Validate reports the first invalid setting. Missing API keys are not
// validation errors: the affected adapter starts unavailable instead.
func (c *Config) Validate() error {
	switch c.Transcription.Provider {
	case transcriber.ProviderWhisperCpp:
		if c.Transcription.Model != "" && whisper.GetModel(c.Transcription.Model) == nil {
			return fmt.Errorf("invalid transcription.model: %s (run 'neuronote models list')", c.Transcription.Model)
		}
	case transcriber.ProviderOpenAI, transcriber.ProviderGroq:
	case "":
		return fmt.Errorf("invalid transcription.provider: empty")
	default:
		return fmt.Errorf("invalid transcription.provider: %s (must be whisper-cpp, openai or groq)", c.Transcription.Provider)
	}

	if !language.IsValid(c.Transcription.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'en', 'es', 'fr')", c.Transcription.Language)
	}
	if c.Transcription.Threads < 0 {
		return fmt.Errorf("invalid transcription.threads: %d", c.Transcription.Threads)
	}

	if _, ok := insights.GetProvider(c.Insights.Provider); !ok {
		return fmt.Errorf("invalid insights.provider: %q (must be one of %s)", c.Insights.Provider, strings.Join(insights.ListProviders(), ", "))
	}

	if c.Server.Host == "" {
		return fmt.Errorf("invalid server.host: empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("invalid server.max_upload_mb: %d", c.Server.MaxUploadMB)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn or error)", c.Log.Level)
	}
	if c.Log.FileLogging && c.Log.FilePath == "" {
		return fmt.Errorf("invalid log.file_path: empty while file logging is enabled")
	}

	if c.Storage.OutputDir == "" {
		return fmt.Errorf("invalid storage.output_dir: empty")
	}

	return nil
}
