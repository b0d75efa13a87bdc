package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"greenthumb/pkg/gardentypes"
)

func TestNewGeminiClient(t *testing.T) {
	client := NewGeminiClient("test-api-key")

	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Nil(t, client.client, "genai client is created on first use")
	assert.Equal(t, ProviderGemini, client.GetProviderName())
}

func TestGeminiClient_IsConfigured(t *testing.T) {
	assert.True(t, NewGeminiClient("key").IsConfigured())
	assert.False(t, NewGeminiClient("").IsConfigured())
}

func TestGeminiClient_ConcurrentInitialization(t *testing.T) {
	client := NewGeminiClient("test-api-key")

	const callers = 16
	clients := make([]*genai.Client, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if assert.NoError(t, client.initializeClientIfNeeded(context.Background())) {
				client.mu.Lock()
				clients[i] = client.client
				client.mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, clients[0])
	for _, got := range clients {
		assert.Same(t, clients[0], got)
	}
}

func TestGeminiClient_NotConfigured(t *testing.T) {
	client := NewGeminiClient("")
	ctx := context.Background()

	_, err := client.GenerateStructured(ctx, gardentypes.CompletionRequest{Model: "gemini-2.5-flash", Prompt: "hi"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.CreateChat(ctx, "gemini-2.5-flash", "be helpful")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, client.client)
}

func TestGeminiResponseText(t *testing.T) {
	tests := []struct {
		name     string
		response *genai.GenerateContentResponse
		expected string
	}{
		{name: "nil response", response: nil, expected: ""},
		{name: "no candidates", response: &genai.GenerateContentResponse{}, expected: ""},
		{
			name: "skips thoughts and empty parts",
			response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{
						{Text: "planning...", Thought: true},
						{Text: `{"greetingMessage":`},
						nil,
						{Text: ""},
						{Text: `"hi"}`},
					}}},
					{Content: nil},
				},
			},
			expected: `{"greetingMessage":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, geminiResponseText(tt.response))
		})
	}
}

func TestGeminiClient_InterfaceCompliance(_ *testing.T) {
	var _ gardentypes.CompletionClient = (*GeminiClient)(nil)
}

func TestGeminiClient_Chat_RealAPI(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping real API test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := NewGeminiClient(apiKey)
	chat, err := client.CreateChat(ctx, "gemini-2.5-flash", "Answer in one short sentence.")
	require.NoError(t, err)

	reply, err := chat.Send(ctx, "Name one vegetable that grows well in spring.")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	reply, err = chat.Send(ctx, "What did I just ask you about?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
