package config

import (
	"net"
	"os"
	"strconv"

	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/logging"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

var transcriptionKeyEnv = map[string]string{
	transcriber.ProviderOpenAI: "OPENAI_API_KEY",
	transcriber.ProviderGroq:   "GROQ_API_KEY",
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider:     c.Transcription.Provider,
		APIKey:       c.resolveTranscriptionKey(),
		Model:        c.Transcription.Model,
		Language:     c.Transcription.Language,
		Threads:      c.Transcription.Threads,
		ModelsDir:    c.Transcription.ModelsDir,
		AutoDownload: c.Transcription.AutoDownload,
		Serialize:    c.Transcription.Serialize,
		Binary:       c.Transcription.Binary,
	}
}

// resolveTranscriptionKey checks the provider environment variable, then
// providers.<name>.api_key, then transcription.api_key.
func (c *Config) resolveTranscriptionKey() string {
	if env, ok := transcriptionKeyEnv[c.Transcription.Provider]; ok {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if pc, ok := c.Providers[c.Transcription.Provider]; ok && pc.APIKey != "" {
		return pc.APIKey
	}
	return c.Transcription.APIKey
}

// ToInsightsConfig returns the file-level insights settings. The provider's
// environment variables win over these and are applied by insights.Resolve.
func (c *Config) ToInsightsConfig() insights.Config {
	key := c.Insights.APIKey
	if pc, ok := c.Providers[c.Insights.Provider]; ok && pc.APIKey != "" && key == "" {
		key = pc.APIKey
	}
	return insights.Config{
		Provider: c.Insights.Provider,
		APIKey:   key,
		Model:    c.Insights.Model,
		BaseURL:  c.Insights.BaseURL,
	}
}

func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Log.Level,
		JSON:        c.Log.JSON,
		FileLogging: c.Log.FileLogging,
		FilePath:    c.Log.FilePath,
		MaxSizeMB:   c.Log.MaxSizeMB,
		MaxBackups:  c.Log.MaxBackups,
	}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
