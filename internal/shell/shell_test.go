package shell

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenthumb/internal/output"
	"greenthumb/internal/services"
	"greenthumb/internal/storage"
	"greenthumb/internal/testutils"
	"greenthumb/pkg/gardentypes"
)

// syncBuffer is a bytes.Buffer safe for the speech callback goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type stubChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	sent    []string
}

func (c *stubChat) Send(_ context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func (c *stubChat) sentMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type stubClient struct {
	chat *stubChat
}

func (c *stubClient) GenerateStructured(context.Context, gardentypes.CompletionRequest) (string, error) {
	return "", errors.New("not used")
}

func (c *stubClient) CreateChat(context.Context, string, string) (gardentypes.ChatSession, error) {
	return c.chat, nil
}

func (c *stubClient) GetProviderName() string { return services.ProviderGemini }

func (c *stubClient) IsConfigured() bool { return true }

type stubSpeechStream struct {
	events chan gardentypes.ProviderEvent
	once   sync.Once
}

func (s *stubSpeechStream) Events() <-chan gardentypes.ProviderEvent { return s.events }

func (s *stubSpeechStream) Stop() error {
	s.once.Do(func() { close(s.events) })
	return nil
}

type stubSpeechProvider struct {
	mu      sync.Mutex
	locales []string
	streams []*stubSpeechStream
}

func (p *stubSpeechProvider) IsSupported() bool { return true }

func (p *stubSpeechProvider) Open(_ context.Context, locale string) (gardentypes.SpeechStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stream := &stubSpeechStream{events: make(chan gardentypes.ProviderEvent, 8)}
	p.locales = append(p.locales, locale)
	p.streams = append(p.streams, stream)
	return stream, nil
}

func (p *stubSpeechProvider) last() *stubSpeechStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streams[len(p.streams)-1]
}

type assistantFixture struct {
	assistant *Assistant
	chat      *stubChat
	history   *services.HistoryService
	speech    *services.SpeechService
	provider  *stubSpeechProvider
	out       *syncBuffer
}

func newAssistantFixture(t *testing.T, speechSupported bool) *assistantFixture {
	t.Helper()
	ctx := testutils.SetupTestContext(t)
	ctx.SetTestEnvOverride("GREENTHUMB_GEMINI_API_KEY", "test-key")

	config := services.NewConfigurationService()
	require.NoError(t, config.Initialize())

	chat := &stubChat{}
	factory := services.NewClientFactoryService(config)
	factory.RegisterProvider(services.ProviderGemini, func(string) gardentypes.CompletionClient {
		return &stubClient{chat: chat}
	})
	require.NoError(t, factory.Initialize())

	session, err := services.NewAssistantService(config, factory).StartSession(context.Background())
	require.NoError(t, err)

	store := services.NewStorageServiceWithStore(storage.NewMemoryStore())
	require.NoError(t, store.Initialize())
	history := services.NewHistoryService(store)

	provider := &stubSpeechProvider{}
	speech := services.NewSpeechServiceWithProvider(provider)
	if !speechSupported {
		speech = services.NewSpeechServiceWithProvider(services.NewCommandSpeechProvider(""))
	}
	require.NoError(t, speech.Initialize())
	t.Cleanup(speech.StopListening)

	out := &syncBuffer{}
	printer := output.NewPrinter(output.WithWriter(out), output.PlainText())

	return &assistantFixture{
		assistant: NewAssistant(session, speech, history, AssistantOptions{Printer: printer, Lang: "fr"}),
		chat:      chat,
		history:   history,
		speech:    speech,
		provider:  provider,
		out:       out,
	}
}

func TestAssistant_Welcome(t *testing.T) {
	f := newAssistantFixture(t, true)
	f.assistant.Welcome()

	assert.Contains(t, f.out.String(), "GreenThumb: "+services.AssistantWelcomeMessage)
	assert.Contains(t, f.out.String(), "/help")
}

func TestAssistant_HandleTypedQuestion(t *testing.T) {
	f := newAssistantFixture(t, true)
	f.chat.replies = []string{"Use `greenthumb plan` to create a schedule."}

	assert.False(t, f.assistant.Handle(context.Background(), "  How do I start?  "))
	assert.Equal(t, []string{"How do I start?"}, f.chat.sentMessages())
	assert.Contains(t, f.out.String(), "GreenThumb: Use `greenthumb plan` to create a schedule.")

	assert.False(t, f.assistant.Handle(context.Background(), "   "))
	assert.Len(t, f.chat.sentMessages(), 1)
}

func TestAssistant_HandleProviderFailure(t *testing.T) {
	f := newAssistantFixture(t, true)
	f.chat.err = errors.New("service unavailable")

	f.assistant.Handle(context.Background(), "hello")

	out := f.out.String()
	assert.Contains(t, out, "GreenThumb: "+services.AssistantApologyMessage)
	assert.Contains(t, out, "Assistant error: service unavailable")
}

func TestAssistant_Commands(t *testing.T) {
	f := newAssistantFixture(t, true)
	ctx := context.Background()

	assert.False(t, f.assistant.Handle(ctx, "/help"))
	assert.Contains(t, f.out.String(), "/listen")

	assert.False(t, f.assistant.Handle(ctx, "/compost"))
	assert.Contains(t, f.out.String(), "Unknown command /compost")

	assert.False(t, f.assistant.Handle(ctx, "/stop"))
	assert.Contains(t, f.out.String(), "Not listening.")

	assert.True(t, f.assistant.Handle(ctx, "/exit"))
	assert.True(t, f.assistant.Handle(ctx, "/QUIT"))
	assert.Empty(t, f.chat.sentMessages())
}

func TestAssistant_History(t *testing.T) {
	f := newAssistantFixture(t, true)
	ctx := context.Background()

	f.assistant.Handle(ctx, "/history")
	assert.Contains(t, f.out.String(), "No saved schedules")

	_, err := f.history.Save(ctx, &gardentypes.GeneratedSchedule{GreetingMessage: "Here is your plan for Lyon, France."})
	require.NoError(t, err)

	f.assistant.Handle(ctx, "/history")
	assert.Contains(t, f.out.String(), " 1. Lyon, France")
}

func TestAssistant_ListenUnsupported(t *testing.T) {
	f := newAssistantFixture(t, false)

	f.assistant.Handle(context.Background(), "/listen")
	assert.Contains(t, f.out.String(), "GREENTHUMB_SPEECH_COMMAND")
	assert.Equal(t, services.SpeechIdle, f.speech.State())
}

func TestAssistant_ListenSendsFinalTranscript(t *testing.T) {
	f := newAssistantFixture(t, true)
	f.chat.replies = []string{"Start with lettuce."}

	f.assistant.Handle(context.Background(), "/listen")
	require.Equal(t, services.SpeechListening, f.speech.State())
	assert.Equal(t, []string{"fr-FR"}, f.provider.locales)

	stream := f.provider.last()
	stream.events <- gardentypes.ProviderEvent{Kind: gardentypes.ProviderResult, Transcript: "what should"}
	stream.events <- gardentypes.ProviderEvent{Kind: gardentypes.ProviderResult, Transcript: "what should I plant", IsFinal: true}

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(f.out.String()), []byte("Stopped listening."))
	}, 2*time.Second, 10*time.Millisecond)

	out := f.out.String()
	assert.Contains(t, out, "Listening...")
	assert.Contains(t, out, "what should\n")
	assert.Contains(t, out, "You: what should I plant")
	assert.Contains(t, out, "GreenThumb: Start with lettuce.")
	assert.Equal(t, []string{"what should I plant"}, f.chat.sentMessages())
	assert.Equal(t, services.SpeechIdle, f.speech.State())
}

func TestAssistant_ListenError(t *testing.T) {
	f := newAssistantFixture(t, true)

	f.assistant.Handle(context.Background(), "/listen")
	f.provider.last().events <- gardentypes.ProviderEvent{Kind: gardentypes.ProviderError, ErrorCode: "no-speech"}

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(f.out.String()), []byte("Stopped listening."))
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, f.out.String(), services.SpeechErrorMessage("no-speech", "fr-FR"))
	assert.Empty(t, f.chat.sentMessages())
}

func TestAssistant_StopWhileListening(t *testing.T) {
	f := newAssistantFixture(t, true)

	f.assistant.Handle(context.Background(), "/listen")
	require.Equal(t, services.SpeechListening, f.speech.State())

	f.assistant.Handle(context.Background(), "/stop")
	assert.Equal(t, services.SpeechIdle, f.speech.State())
}

func TestFormatHistoryLine(t *testing.T) {
	entry := gardentypes.HistoricalScheduleEntry{
		ID:       "01J0000000000000000000TEST",
		SavedAt:  time.Date(2025, 4, 1, 9, 30, 0, 0, time.Local),
		Location: "Austin, TX",
	}

	line := FormatHistoryLine(3, entry)
	assert.Contains(t, line, " 3. Austin, TX")
	assert.Contains(t, line, "2025-04-01 09:30")
	assert.Contains(t, line, entry.ID)

	entry.Name = "A very long custom name for the spring vegetable garden in the backyard"
	line = FormatHistoryLine(1, entry)
	assert.Contains(t, line, "…")
	assert.NotContains(t, line, "backyard")
}

func TestInitializeServices(t *testing.T) {
	ctx := testutils.SetupTestContext(t)
	ctx.SetConfigValue(services.KeyStore, storage.BackendMemory)

	previous := services.GetGlobalRegistry()
	services.SetGlobalRegistry(services.NewRegistry())
	t.Cleanup(func() { services.SetGlobalRegistry(previous) })

	require.NoError(t, InitializeServices(true))
	t.Cleanup(ShutdownServices)

	for _, name := range []string{"configuration", "storage", "client_factory", "schedule", "history", "assistant", "speech", "preferences", "theme", "markdown"} {
		_, err := services.GetGlobalRegistry().GetService(name)
		assert.NoError(t, err, name)
	}

	history, err := services.GetGlobalHistoryService()
	require.NoError(t, err)
	entries, err := history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	speech, err := services.GetGlobalSpeechService()
	require.NoError(t, err)
	assert.False(t, speech.IsSupported())
}
