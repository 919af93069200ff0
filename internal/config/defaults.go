package config

import (
	"time"

	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/models/whisper"
	"github.com/leonardotrapani/neuronote/internal/storage"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Transcription: TranscriptionConfig{
			Provider:  transcriber.ProviderWhisperCpp,
			Model:     whisper.DefaultModelID,
			Serialize: true,
		},
		Insights: InsightsConfig{
			Provider: insights.ProviderGemini,
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              5000,
			MaxUploadMB:       200,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			FilePath:   "app.log",
			MaxSizeMB:  1,
			MaxBackups: 5,
		},
		Storage: StorageConfig{
			OutputDir: storage.DefaultOutputDir,
		},
		Providers: make(map[string]ProviderConfig),
	}
}
