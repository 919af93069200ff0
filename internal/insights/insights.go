// Package insights turns a meeting transcript into structured meeting
// insights using a chat-completion model.
package insights

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// Generator produces insights text from a transcript.
type Generator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

// Config holds generator configuration
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string // overrides the provider endpoint
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// ProviderInfo describes a supported chat-completion provider.
type ProviderInfo struct {
	Name         string
	BaseURL      string // empty uses the go-openai default
	DefaultModel string
	KeyEnv       string
	ModelEnv     string
}

var providers = map[string]ProviderInfo{
	ProviderGemini: {
		Name:         ProviderGemini,
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta/openai/",
		DefaultModel: "gemini-1.5-flash",
		KeyEnv:       "GEMINI_API_KEY",
		ModelEnv:     "GEMINI_MODEL",
	},
	ProviderOpenAI: {
		Name:         ProviderOpenAI,
		DefaultModel: "gpt-4o-mini",
		KeyEnv:       "OPENAI_API_KEY",
		ModelEnv:     "OPENAI_MODEL",
	},
	ProviderGroq: {
		Name:         ProviderGroq,
		BaseURL:      "https://api.groq.com/openai/v1",
		DefaultModel: "llama-3.3-70b-versatile",
		KeyEnv:       "GROQ_API_KEY",
		ModelEnv:     "GROQ_MODEL",
	},
}

// GetProvider returns provider metadata, or false for unknown names.
func GetProvider(name string) (ProviderInfo, bool) {
	p, ok := providers[name]
	return p, ok
}

// ListProviders returns the supported provider names, sorted.
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve fills APIKey and Model from the environment, which takes precedence
// over the configured values, and falls back to the provider default model.
func Resolve(cfg Config) Config {
	p, ok := providers[cfg.Provider]
	if !ok {
		return cfg
	}
	if v := os.Getenv(p.KeyEnv); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(p.ModelEnv); v != "" {
		cfg.Model = v
	}
	if cfg.Model == "" {
		cfg.Model = p.DefaultModel
	}
	return cfg
}

// NewAdapter creates a generator for the configured provider
func NewAdapter(cfg Config) (Generator, error) {
	p, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported insights provider: %s", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s not found in environment variables or config file", p.KeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = p.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = p.BaseURL
	}
	return NewChatAdapter(cfg), nil
}
