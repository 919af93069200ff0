package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names an alternative config file location.
const EnvConfigPath = "NEURONOTE_CONFIG"

// GetConfigPath returns the default config file location,
// $XDG_CONFIG_HOME/neuronote/config.toml on Linux.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "neuronote", "config.toml"), nil
}

// ResolvePath picks the config file: the explicit path if given, then
// $NEURONOTE_CONFIG, then the default location.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	return GetConfigPath()
}

// Load builds the effective configuration: defaults, then the file at path
// (if it exists), then .env in the working directory, then the environment.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes path over the defaults. A missing file yields the
// defaults; files ending in .yaml or .yml are decoded as YAML, anything
// else as TOML.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. Provider API keys
// and models are resolved later, when adapter configs are built.
func (c *Config) ApplyEnv() error {
	strs := []struct {
		env string
		dst *string
	}{
		{"TRANSCRIPTION_PROVIDER", &c.Transcription.Provider},
		{"WHISPER_MODEL", &c.Transcription.Model},
		{"TRANSCRIPTION_LANGUAGE", &c.Transcription.Language},
		{"WHISPER_MODELS_DIR", &c.Transcription.ModelsDir},
		{"INSIGHTS_PROVIDER", &c.Insights.Provider},
		{"HOST", &c.Server.Host},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FILE_PATH", &c.Log.FilePath},
		{"OUTPUT_DIR", &c.Storage.OutputDir},
		{"UPLOAD_DIR", &c.Storage.UploadDir},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.env); ok && v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{"DEBUG", &c.Server.Debug},
		{"ENABLE_FILE_LOGGING", &c.Log.FileLogging},
		{"LOG_JSON", &c.Log.JSON},
	}
	for _, b := range bools {
		v, ok := os.LookupEnv(b.env)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", b.env, v)
		}
		*b.dst = parsed
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		c.Server.Port = port
	}

	return nil
}
