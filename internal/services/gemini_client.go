package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// GeminiClient implements gardentypes.CompletionClient for the Google Gemini API.
// The underlying genai client is created lazily on the first request.
type GeminiClient struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return ProviderGemini
}

// IsConfigured returns true if the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("%w for provider gemini", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug("Gemini client initialized", "provider", ProviderGemini)
	c.client = client
	return nil
}

// GenerateStructured sends a single prompt and returns the raw response text.
func (c *GeminiClient) GenerateStructured(ctx context.Context, req gardentypes.CompletionRequest) (string, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	logger.Debug("Sending Gemini request", "model", req.Model, "json", req.JSONOutput)
	result, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	return geminiResponseText(result), nil
}

// CreateChat starts a conversation scoped by systemInstruction.
func (c *GeminiClient) CreateChat(ctx context.Context, model, systemInstruction string) (gardentypes.ChatSession, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	return newHistoryChatSession(func(ctx context.Context, turns []chatTurn) (string, error) {
		contents := make([]*genai.Content, 0, len(turns))
		for _, turn := range turns {
			var role genai.Role = genai.RoleUser
			if turn.sender == gardentypes.SenderAssistant {
				role = genai.RoleModel
			}
			contents = append(contents, genai.NewContentFromText(turn.text, role))
		}

		result, err := c.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return "", fmt.Errorf("gemini request failed: %w", err)
		}
		return geminiResponseText(result), nil
	}), nil
}

// geminiResponseText concatenates the text parts of all candidates, skipping thought parts.
func geminiResponseText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}

	var content strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" || part.Thought {
				continue
			}
			content.WriteString(part.Text)
		}
	}
	return content.String()
}
