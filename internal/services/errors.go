package services

import (
	"errors"
	"fmt"
	"strings"

	"greenthumb/internal/schedule"
)

var (
	// ErrMissingAPIKey means no API key is configured for the selected provider.
	ErrMissingAPIKey = errors.New("API key is not configured")

	// ErrInvalidAPIKey means the provider rejected the configured API key.
	ErrInvalidAPIKey = errors.New("API key is not valid")

	// ErrNoActiveSchedule is returned when saving or showing without a generated schedule.
	ErrNoActiveSchedule = errors.New("no active schedule")

	// ErrSpeechUnsupported is returned when no speech provider is available.
	ErrSpeechUnsupported = errors.New("speech recognition is not supported in this environment")
)

// Provider operations, used in ProviderError and user messages.
const (
	OpGenerateSchedule = "generate schedule"
	OpAssistant        = "assistant"
)

// ProviderError wraps a failure reported by a completion provider.
type ProviderError struct {
	Op       string
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// invalidKeyMarkers are provider messages that indicate a rejected API key.
var invalidKeyMarkers = []string{
	"api key not valid",
	"invalid x-api-key",
	"incorrect api key",
	"invalid api key",
	"401 unauthorized",
}

// wrapProviderError classifies err into a ProviderError, tagging rejected keys with ErrInvalidAPIKey.
func wrapProviderError(op, provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return err
	}

	message := strings.ToLower(err.Error())
	for _, marker := range invalidKeyMarkers {
		if strings.Contains(message, marker) {
			return &ProviderError{Op: op, Provider: provider, Err: fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)}
		}
	}
	return &ProviderError{Op: op, Provider: provider, Err: err}
}

// UserMessage maps an error from any service to the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var malformed *schedule.MalformedResponseError
	var providerErr *ProviderError

	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return err.Error()
	case errors.Is(err, ErrInvalidAPIKey):
		if errors.As(err, &providerErr) && providerErr.Op == OpAssistant {
			return "The provided API key for the assistant is not valid. Please check your API key configuration."
		}
		return "The provided API key for schedule generation is not valid. Please check your API key configuration."
	case errors.As(err, &malformed):
		return "Received an invalid schedule format from the AI. The AI's response might be malformed or not valid JSON. Please try again or simplify your request."
	case errors.As(err, &providerErr):
		if providerErr.Op == OpAssistant {
			return fmt.Sprintf("Assistant error: %v", providerErr.Err)
		}
		return fmt.Sprintf("Failed to generate schedule: %v", providerErr.Err)
	case errors.Is(err, ErrNoActiveSchedule):
		return "There is no schedule to save yet. Generate one with `greenthumb plan` or load one from history."
	case errors.Is(err, ErrSpeechUnsupported):
		return "Speech recognition is not supported here. Set GREENTHUMB_SPEECH_COMMAND to enable voice input."
	default:
		return err.Error()
	}
}
