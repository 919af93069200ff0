package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ChatAdapter implements Generator over any OpenAI-compatible chat
// completions API (OpenAI, Gemini, Groq)
type ChatAdapter struct {
	client *openai.Client
	config Config
}

func NewChatAdapter(cfg Config) *ChatAdapter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &ChatAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

func (a *ChatAdapter) Generate(ctx context.Context, transcript string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(transcript)},
		},
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s chat completion after %v: %w", a.config.Provider, time.Since(start).Round(time.Millisecond), err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: no response choices", a.config.Provider)
	}

	return resp.Choices[0].Message.Content, nil
}
