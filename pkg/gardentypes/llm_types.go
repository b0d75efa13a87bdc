package gardentypes

import "context"

// CompletionRequest is a single-shot generation request.
type CompletionRequest struct {
	Model             string
	Prompt            string
	SystemInstruction string
	// JSONOutput asks the provider to format its answer as a JSON document.
	JSONOutput bool
}

// ChatSession is a provider-side multi-turn conversation.
// History is retained across Send calls on the same session.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, error)
}

// CompletionClient abstracts a text-completion provider (Gemini, OpenAI, Anthropic).
type CompletionClient interface {
	GenerateStructured(ctx context.Context, req CompletionRequest) (string, error)
	CreateChat(ctx context.Context, model, systemInstruction string) (ChatSession, error)

	// GetProviderName returns the provider name (e.g., "gemini").
	GetProviderName() string

	// IsConfigured returns true if the client has credentials and can make requests.
	IsConfigured() bool
}
