package gardentypes

import "context"

// ProviderEventKind classifies raw events emitted by a transcription provider.
type ProviderEventKind int

// Provider event kinds.
const (
	ProviderResult ProviderEventKind = iota
	ProviderError
	ProviderEnd
)

// ProviderEvent is a raw event from a transcription provider.
// ErrorCode uses the Web Speech vocabulary: no-speech, audio-capture,
// not-allowed, network, language-not-supported.
type ProviderEvent struct {
	Kind       ProviderEventKind
	Transcript string
	IsFinal    bool
	ErrorCode  string
}

// SpeechStream is one open transcription session.
type SpeechStream interface {
	// Events delivers provider events; the channel is closed when the session ends.
	Events() <-chan ProviderEvent
	Stop() error
}

// SpeechProvider opens transcription sessions for a locale tag such as "en-US".
type SpeechProvider interface {
	IsSupported() bool
	Open(ctx context.Context, locale string) (SpeechStream, error)
}
