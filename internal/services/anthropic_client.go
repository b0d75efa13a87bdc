package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// anthropicMaxTokens bounds reply length; a full schedule document fits comfortably.
const anthropicMaxTokens = 8192

// jsonOnlyInstruction is appended to the system prompt, since the Messages API has no JSON mode.
const jsonOnlyInstruction = "Respond with a single JSON object and nothing else."

// AnthropicClient implements gardentypes.CompletionClient for the Anthropic Messages API.
type AnthropicClient struct {
	apiKey string

	mu     sync.Mutex
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *AnthropicClient) GetProviderName() string {
	return ProviderAnthropic
}

// IsConfigured returns true if the client has an API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *AnthropicClient) initializeClientIfNeeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("%w for provider anthropic", ErrMissingAPIKey)
	}

	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", ProviderAnthropic)
	return nil
}

// GenerateStructured sends a single prompt and returns the raw response text.
func (c *AnthropicClient) GenerateStructured(ctx context.Context, req gardentypes.CompletionRequest) (string, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	system := req.SystemInstruction
	if req.JSONOutput {
		system = strings.TrimSpace(system + "\n\n" + jsonOnlyInstruction)
	}

	return c.complete(ctx, req.Model, system, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
	})
}

// CreateChat starts a conversation scoped by systemInstruction.
func (c *AnthropicClient) CreateChat(_ context.Context, model, systemInstruction string) (gardentypes.ChatSession, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	return newHistoryChatSession(func(ctx context.Context, turns []chatTurn) (string, error) {
		messages := make([]anthropic.MessageParam, 0, len(turns))
		for _, turn := range turns {
			if turn.sender == gardentypes.SenderAssistant {
				messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.text)))
			} else {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.text)))
			}
		}
		return c.complete(ctx, model, systemInstruction, messages)
	}), nil
}

func (c *AnthropicClient) complete(ctx context.Context, model, system string, messages []anthropic.MessageParam) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	logger.Debug("Sending Anthropic request", "model", model, "messages", len(messages))
	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		content.WriteString(block.Text)
	}
	if content.Len() == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return content.String(), nil
}
