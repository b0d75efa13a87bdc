package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"greenthumb/internal/storage"
	"greenthumb/internal/testutils"
	"greenthumb/pkg/gardentypes"
)

// fakeCompletionClient records requests and replays canned answers.
type fakeCompletionClient struct {
	mu          sync.Mutex
	provider    string
	response    string
	err         error
	requests    []gardentypes.CompletionRequest
	chatModel   string
	chatSystem  string
	chatReplies []string
	chatErr     error
	sent        []string
}

func newFakeCompletionClient(response string) *fakeCompletionClient {
	return &fakeCompletionClient{provider: ProviderGemini, response: response}
}

func (f *fakeCompletionClient) GenerateStructured(_ context.Context, req gardentypes.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompletionClient) CreateChat(_ context.Context, model, systemInstruction string) (gardentypes.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatModel = model
	f.chatSystem = systemInstruction
	return &fakeChatSession{client: f}, nil
}

func (f *fakeCompletionClient) GetProviderName() string { return f.provider }

func (f *fakeCompletionClient) IsConfigured() bool { return true }

type fakeChatSession struct {
	client *fakeCompletionClient
}

func (s *fakeChatSession) Send(_ context.Context, text string) (string, error) {
	f := s.client
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatReplies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := f.chatReplies[0]
	f.chatReplies = f.chatReplies[1:]
	return reply, nil
}

// fakeSpeechProvider hands out streams the test drives by hand.
type fakeSpeechProvider struct {
	mu        sync.Mutex
	supported bool
	openErr   error
	locales   []string
	streams   []*fakeSpeechStream
}

func newFakeSpeechProvider() *fakeSpeechProvider {
	return &fakeSpeechProvider{supported: true}
}

func (p *fakeSpeechProvider) IsSupported() bool { return p.supported }

func (p *fakeSpeechProvider) Open(_ context.Context, locale string) (gardentypes.SpeechStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openErr != nil {
		return nil, p.openErr
	}
	stream := &fakeSpeechStream{events: make(chan gardentypes.ProviderEvent, 8)}
	p.locales = append(p.locales, locale)
	p.streams = append(p.streams, stream)
	return stream, nil
}

func (p *fakeSpeechProvider) stream(i int) *fakeSpeechStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streams[i]
}

type fakeSpeechStream struct {
	mu     sync.Mutex
	events chan gardentypes.ProviderEvent
	stops  int
}

func (s *fakeSpeechStream) Events() <-chan gardentypes.ProviderEvent { return s.events }

func (s *fakeSpeechStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return nil
}

func (s *fakeSpeechStream) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *fakeSpeechStream) push(event gardentypes.ProviderEvent) {
	s.events <- event
}

// newTestStorage returns an initialized storage service over an in-memory store.
func newTestStorage(t *testing.T) (*StorageService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	service := NewStorageServiceWithStore(store)
	require.NoError(t, service.Initialize())
	return service, store
}

// newTestClientFactory returns a factory whose gemini provider is client.
func newTestClientFactory(t *testing.T, client gardentypes.CompletionClient) (*ConfigurationService, *ClientFactoryService) {
	t.Helper()
	ctx := testutils.SetupTestContext(t)
	ctx.SetTestEnvOverride("GREENTHUMB_GEMINI_API_KEY", "test-key")

	config := NewConfigurationService()
	require.NoError(t, config.Initialize())

	factory := NewClientFactoryService(config)
	factory.RegisterProvider(ProviderGemini, func(string) gardentypes.CompletionClient { return client })
	require.NoError(t, factory.Initialize())
	return config, factory
}
