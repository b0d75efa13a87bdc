package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// SpeechEventKind classifies the events delivered by SpeechService.Listen.
type SpeechEventKind int

// Speech event kinds.
const (
	SpeechStarted SpeechEventKind = iota
	SpeechTranscript
	SpeechError
	SpeechEnded
)

func (k SpeechEventKind) String() string {
	switch k {
	case SpeechStarted:
		return "started"
	case SpeechTranscript:
		return "transcript"
	case SpeechError:
		return "error"
	case SpeechEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SpeechEvent is one event of a listening session.
type SpeechEvent struct {
	Kind    SpeechEventKind
	Text    string
	IsFinal bool
	Message string
}

// SpeechState is the listening state of the speech service.
type SpeechState int

// Speech states.
const (
	SpeechIdle SpeechState = iota
	SpeechListening
)

// ListenOptions selects the recognition language. Locale wins over Lang when both are set.
type ListenOptions struct {
	Lang   string
	Locale string
}

func (o ListenOptions) locale() string {
	if o.Locale != "" {
		return o.Locale
	}
	return SpeechLocaleFor(o.Lang)
}

// SpeechCallbacks receives the events of a session started with StartListening.
type SpeechCallbacks struct {
	OnStart  func()
	OnResult func(text string, isFinal bool)
	OnError  func(message string)
	OnEnd    func()
}

var speechLocales = map[string]string{
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"de": "de-DE",
	"ta": "ta-IN",
	"te": "te-IN",
	"ar": "ar-SA",
}

// DefaultSpeechLocale is used for unknown display languages.
const DefaultSpeechLocale = "en-US"

// SpeechLocaleFor maps a display-language code to a recognition locale.
func SpeechLocaleFor(lang string) string {
	if locale, ok := speechLocales[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return locale
	}
	return DefaultSpeechLocale
}

// SpeechErrorMessage returns the user-facing text for a provider error code.
func SpeechErrorMessage(code, locale string) string {
	switch code {
	case "no-speech":
		return fmt.Sprintf("No speech was detected. Please try again. (Lang: %s)", locale)
	case "audio-capture":
		return "Audio capture failed. Ensure microphone is enabled."
	case "not-allowed":
		return "Microphone access denied. Please allow microphone access in your browser settings."
	case "network":
		return "Network error during speech recognition."
	case "language-not-supported":
		return fmt.Sprintf("The selected language (%s) is not supported by speech recognition.", locale)
	default:
		return "An unknown speech recognition error occurred."
	}
}

// speechEventBuffer bounds the events queued for a slow subscriber.
const speechEventBuffer = 32

// speechReservedSlots keeps room in the buffer for one terminal event (a final
// transcript or an error) and Ended.
const speechReservedSlots = 2

// speechSession is the single provider session owned by the service.
type speechSession struct {
	generation uint64
	locale     string
	stream     gardentypes.SpeechStream
	out        chan SpeechEvent
	done       chan struct{}
	doneOnce   sync.Once
	stopOnce   sync.Once
}

func (s *speechSession) release() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *speechSession) released() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// SpeechService adapts a streaming transcription provider into listening sessions.
// At most one session is active; starting another releases the current one.
type SpeechService struct {
	mu         sync.Mutex
	config     *ConfigurationService
	provider   gardentypes.SpeechProvider
	session    *speechSession
	generation uint64
}

// NewSpeechService creates a speech service that builds its provider from configuration.
func NewSpeechService(config *ConfigurationService) *SpeechService {
	return &SpeechService{config: config}
}

// NewSpeechServiceWithProvider creates a speech service around provider.
func NewSpeechServiceWithProvider(provider gardentypes.SpeechProvider) *SpeechService {
	return &SpeechService{provider: provider}
}

// Name returns the service name "speech" for registration.
func (s *SpeechService) Name() string {
	return "speech"
}

// Initialize creates the command provider from GREENTHUMB_SPEECH_COMMAND unless a
// provider was supplied.
func (s *SpeechService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil && s.config != nil {
		s.provider = NewCommandSpeechProvider(s.config.GetSpeechCommand())
	}
	return nil
}

// IsSupported reports whether a usable provider is configured.
func (s *SpeechService) IsSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider != nil && s.provider.IsSupported()
}

// State returns SpeechListening while a session is active.
func (s *SpeechService) State() SpeechState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return SpeechListening
	}
	return SpeechIdle
}

// Listen opens a session and returns its events: Started, then Transcript and Error
// events, then Ended. The channel is closed after Ended.
func (s *SpeechService) Listen(ctx context.Context, opts ListenOptions) (<-chan SpeechEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil || !s.provider.IsSupported() {
		return nil, ErrSpeechUnsupported
	}
	if s.session != nil {
		s.releaseLocked()
	}

	locale := opts.locale()
	stream, err := s.provider.Open(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to start speech recognition: %w", err)
	}

	s.generation++
	session := &speechSession{
		generation: s.generation,
		locale:     locale,
		stream:     stream,
		out:        make(chan SpeechEvent, speechEventBuffer),
		done:       make(chan struct{}),
	}
	s.session = session
	session.out <- SpeechEvent{Kind: SpeechStarted}

	logger.Debug("Speech session started", "generation", session.generation, "locale", locale)
	go s.pump(session)
	return session.out, nil
}

// StartListening runs a session and dispatches its events to callbacks.
func (s *SpeechService) StartListening(ctx context.Context, callbacks SpeechCallbacks, opts ListenOptions) error {
	events, err := s.Listen(ctx, opts)
	if err != nil {
		return err
	}

	go func() {
		for event := range events {
			switch event.Kind {
			case SpeechStarted:
				if callbacks.OnStart != nil {
					callbacks.OnStart()
				}
			case SpeechTranscript:
				if callbacks.OnResult != nil {
					callbacks.OnResult(event.Text, event.IsFinal)
				}
			case SpeechError:
				if callbacks.OnError != nil {
					callbacks.OnError(event.Message)
				}
			case SpeechEnded:
				if callbacks.OnEnd != nil {
					callbacks.OnEnd()
				}
			}
		}
	}()
	return nil
}

// StopListening releases the active session. It is a no-op when idle.
func (s *SpeechService) StopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.releaseLocked()
	}
}

func (s *SpeechService) releaseLocked() {
	logger.Debug("Speech session released", "generation", s.session.generation)
	s.session.release()
	s.session = nil
}

// pump forwards provider events to the subscriber until the session finishes.
func (s *SpeechService) pump(session *speechSession) {
	providerEvents := session.stream.Events()
	defer s.finish(session)

	for {
		select {
		case <-session.done:
			return
		case event, ok := <-providerEvents:
			if !ok {
				return
			}
			switch event.Kind {
			case gardentypes.ProviderResult:
				transcript := SpeechEvent{Kind: SpeechTranscript, Text: event.Transcript, IsFinal: event.IsFinal}
				if !s.emit(session, transcript, event.IsFinal) {
					return
				}
				if event.IsFinal {
					return
				}
			case gardentypes.ProviderError:
				s.emit(session, SpeechEvent{Kind: SpeechError, Message: SpeechErrorMessage(event.ErrorCode, session.locale)}, true)
				return
			case gardentypes.ProviderEnd:
				return
			}
		}
	}
}

// emit queues event unless the session has been released. pump is the only sender,
// so free space only grows while it checks. Interim transcripts are dropped once
// queuing them would eat into the reserved slots; terminal events never block.
func (s *SpeechService) emit(session *speechSession, event SpeechEvent, terminal bool) bool {
	if session.released() {
		return false
	}
	if !terminal && cap(session.out)-len(session.out) <= speechReservedSlots {
		logger.Debug("Speech subscriber behind; dropped interim transcript", "generation", session.generation)
		return true
	}
	session.out <- event
	return true
}

// finish returns the service to Idle if session is still current, stops the provider
// stream and delivers Ended.
func (s *SpeechService) finish(session *speechSession) {
	s.mu.Lock()
	if s.session != nil && s.session.generation == session.generation {
		s.session = nil
	}
	s.mu.Unlock()
	session.release()

	session.stopOnce.Do(func() {
		if err := session.stream.Stop(); err != nil {
			logger.Debug("Speech stream stop failed", "generation", session.generation, "error", err)
		}
	})

	// emit always leaves a slot for Ended.
	session.out <- SpeechEvent{Kind: SpeechEnded}
	close(session.out)
}

// GetGlobalSpeechService returns the registered speech service.
func GetGlobalSpeechService() (*SpeechService, error) {
	return getGlobalService[*SpeechService]("speech")
}
