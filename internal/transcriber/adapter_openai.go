package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter transcribes through an OpenAI-compatible audio API
type OpenAIAdapter struct {
	client *openai.Client
	config Config
	name   string
}

func NewOpenAIAdapter(config Config) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "openai",
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, path string) (string, error) {
	// go-openai opens FilePath itself when no Reader is given
	req := openai.AudioRequest{
		Model:    a.config.Model,
		FilePath: path,
		Language: a.config.Language,
		Format:   openai.AudioResponseFormatJSON,
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s transcription after %v: %w", a.name, time.Since(start).Round(time.Millisecond), err)
	}
	return resp.Text, nil
}
