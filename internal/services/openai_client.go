package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// OpenAIClient implements gardentypes.CompletionClient for OpenAI chat completions.
type OpenAIClient struct {
	apiKey string

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client with lazy initialization.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *OpenAIClient) GetProviderName() string {
	return ProviderOpenAI
}

// IsConfigured returns true if the client has an API key.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenAIClient) initializeClientIfNeeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("%w for provider openai", ErrMissingAPIKey)
	}

	client := openai.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client

	logger.Debug("OpenAI client initialized", "provider", ProviderOpenAI)
	return nil
}

// GenerateStructured sends a single prompt and returns the raw response text.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, req gardentypes.CompletionRequest) (string, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.JSONOutput {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return c.complete(ctx, params)
}

// CreateChat starts a conversation scoped by systemInstruction.
func (c *OpenAIClient) CreateChat(_ context.Context, model, systemInstruction string) (gardentypes.ChatSession, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	return newHistoryChatSession(func(ctx context.Context, turns []chatTurn) (string, error) {
		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
		if systemInstruction != "" {
			messages = append(messages, openai.SystemMessage(systemInstruction))
		}
		for _, turn := range turns {
			if turn.sender == gardentypes.SenderAssistant {
				messages = append(messages, openai.AssistantMessage(turn.text))
			} else {
				messages = append(messages, openai.UserMessage(turn.text))
			}
		}

		return c.complete(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(model),
			Messages: messages,
		})
	}), nil
}

func (c *OpenAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	logger.Debug("Sending OpenAI request", "model", params.Model, "messages", len(params.Messages))

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}
