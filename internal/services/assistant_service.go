package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/data/embedded"
	"greenthumb/internal/logger"
	"greenthumb/internal/testutils"
	"greenthumb/pkg/gardentypes"
)

// Assistant messages shown without a provider round trip.
const (
	AssistantWelcomeMessage = "Hi! I'm the GreenThumb assistant. Ask me how to plan a garden, read a schedule or use saved history."
	AssistantApologyMessage = "Sorry, I couldn't get a response just now. Please try again."
)

// ErrEmptyMessage is returned when a blank line is sent to the assistant.
var ErrEmptyMessage = errors.New("message is empty")

// AssistantService opens assistant chat sessions on the configured provider.
type AssistantService struct {
	config  *ConfigurationService
	clients *ClientFactoryService
}

// NewAssistantService creates an assistant service.
func NewAssistantService(config *ConfigurationService, clients *ClientFactoryService) *AssistantService {
	return &AssistantService{config: config, clients: clients}
}

// Name returns the service name "assistant" for registration.
func (a *AssistantService) Name() string {
	return "assistant"
}

// Initialize performs no work; sessions are created on demand.
func (a *AssistantService) Initialize() error {
	return nil
}

// StartSession opens a chat scoped by the assistant system instruction. The session
// starts with the welcome message as its first assistant turn.
func (a *AssistantService) StartSession(ctx context.Context) (*AssistantSession, error) {
	client, err := a.clients.GetClient()
	if err != nil {
		return nil, err
	}
	provider := client.GetProviderName()

	chat, err := client.CreateChat(ctx, a.config.GetModel(provider), embedded.AssistantSystemInstruction)
	if err != nil {
		return nil, wrapProviderError(OpAssistant, provider, err)
	}

	session := &AssistantSession{chat: chat, provider: provider}
	session.append(gardentypes.SenderAssistant, AssistantWelcomeMessage)
	logger.Debug("Assistant session started", "provider", provider)
	return session, nil
}

// AssistantSession is one assistant conversation and its message log.
type AssistantSession struct {
	mu       sync.Mutex
	chat     gardentypes.ChatSession
	provider string
	messages []gardentypes.ChatMessage
}

// Messages returns the conversation so far, oldest first.
func (s *AssistantSession) Messages() []gardentypes.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gardentypes.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send records text as a user message and returns the assistant's reply. On failure
// an apology is recorded as the assistant turn and the provider error is returned.
func (s *AssistantSession) Send(ctx context.Context, text string) (gardentypes.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return gardentypes.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	s.append(gardentypes.SenderUser, text)
	s.mu.Unlock()

	reply, err := s.chat.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.append(gardentypes.SenderAssistant, AssistantApologyMessage)
		return gardentypes.ChatMessage{}, wrapProviderError(OpAssistant, s.provider, err)
	}
	return s.append(gardentypes.SenderAssistant, reply), nil
}

// append adds a message to the log; callers hold s.mu except during construction.
func (s *AssistantSession) append(sender gardentypes.Sender, text string) gardentypes.ChatMessage {
	gctx := greenthumbcontext.GetGlobalContext()
	message := gardentypes.ChatMessage{
		ID:        testutils.GenerateUUID(gctx),
		Text:      text,
		Sender:    sender,
		Timestamp: testutils.GetCurrentTime(gctx),
	}
	s.messages = append(s.messages, message)
	return message
}

// GetGlobalAssistantService returns the registered assistant service.
func GetGlobalAssistantService() (*AssistantService, error) {
	return getGlobalService[*AssistantService]("assistant")
}
