package config

import "time"

type Config struct {
	Transcription TranscriptionConfig       `toml:"transcription" yaml:"transcription"`
	Insights      InsightsConfig            `toml:"insights" yaml:"insights"`
	Server        ServerConfig              `toml:"server" yaml:"server"`
	Log           LogConfig                 `toml:"log" yaml:"log"`
	Storage       StorageConfig             `toml:"storage" yaml:"storage"`
	Providers     map[string]ProviderConfig `toml:"providers" yaml:"providers"`
}

// ProviderConfig holds the API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key" yaml:"api_key"`
}

type TranscriptionConfig struct {
	Provider     string `toml:"provider" yaml:"provider"`
	Model        string `toml:"model" yaml:"model"`
	Language     string `toml:"language" yaml:"language"` // empty for auto-detect
	APIKey       string `toml:"api_key" yaml:"api_key"`
	Threads      int    `toml:"threads" yaml:"threads"`
	ModelsDir    string `toml:"models_dir" yaml:"models_dir"`
	AutoDownload bool   `toml:"auto_download" yaml:"auto_download"`
	Serialize    bool   `toml:"serialize" yaml:"serialize"`
	Binary       string `toml:"binary" yaml:"binary"`
}

// InsightsConfig selects the chat model that writes meeting insights
type InsightsConfig struct {
	Provider string `toml:"provider" yaml:"provider"`
	Model    string `toml:"model" yaml:"model"`
	APIKey   string `toml:"api_key" yaml:"api_key"`
	BaseURL  string `toml:"base_url" yaml:"base_url"`
}

type ServerConfig struct {
	Host              string        `toml:"host" yaml:"host"`
	Port              int           `toml:"port" yaml:"port"`
	Debug             bool          `toml:"debug" yaml:"debug"`
	MaxUploadMB       int64         `toml:"max_upload_mb" yaml:"max_upload_mb"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	JSON        bool   `toml:"json" yaml:"json"`
	FileLogging bool   `toml:"file_logging" yaml:"file_logging"`
	FilePath    string `toml:"file_path" yaml:"file_path"`
	MaxSizeMB   int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups  int    `toml:"max_backups" yaml:"max_backups"`
}

type StorageConfig struct {
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
	UploadDir string `toml:"upload_dir" yaml:"upload_dir"` // empty uses the OS temp dir
}
