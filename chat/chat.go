// Package chat serves a single persona chat endpoint backed by an OpenAI
// chat model.
package chat

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = openai.GPT4oMini
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.8
)

// ErrNoReply is returned when the model answers without any choice.
var ErrNoReply = errors.New("no response choices")

// Completer answers one user message under a system prompt.
type Completer interface {
	Complete(ctx context.Context, system, message string) (string, error)
}

// OpenAICompleter completes through the OpenAI chat API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAICompleter returns a completer for apiKey. An empty baseURL keeps
// the public endpoint and an empty model means DefaultModel.
func NewOpenAICompleter(apiKey, baseURL, model string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, message string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoReply
	}
	return resp.Choices[0].Message.Content, nil
}
