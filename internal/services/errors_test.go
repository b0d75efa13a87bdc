package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"greenthumb/internal/schedule"
)

func TestWrapProviderError(t *testing.T) {
	assert.NoError(t, wrapProviderError(OpAssistant, ProviderGemini, nil))

	missing := fmt.Errorf("%w for provider gemini", ErrMissingAPIKey)
	assert.Same(t, missing, wrapProviderError(OpGenerateSchedule, ProviderGemini, missing))

	tests := []struct {
		name    string
		cause   string
		invalid bool
	}{
		{name: "gemini rejected key", cause: "Error 400, API key not valid. Please pass a valid API key.", invalid: true},
		{name: "anthropic rejected key", cause: "401 Unauthorized: invalid x-api-key", invalid: true},
		{name: "openai rejected key", cause: "Incorrect API key provided: sk-***", invalid: true},
		{name: "rate limit", cause: "429 Too Many Requests", invalid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapProviderError(OpGenerateSchedule, ProviderOpenAI, errors.New(tt.cause))

			var providerErr *ProviderError
			assert.True(t, errors.As(err, &providerErr))
			assert.Equal(t, OpGenerateSchedule, providerErr.Op)
			assert.Equal(t, ProviderOpenAI, providerErr.Provider)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidAPIKey))
			assert.Contains(t, err.Error(), tt.cause)
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil", err: nil, contains: ""},
		{name: "missing key", err: fmt.Errorf("%w: set GREENTHUMB_GEMINI_API_KEY", ErrMissingAPIKey), contains: "GREENTHUMB_GEMINI_API_KEY"},
		{
			name:     "invalid key for schedule",
			err:      wrapProviderError(OpGenerateSchedule, ProviderGemini, errors.New("API key not valid")),
			contains: "API key for schedule generation is not valid",
		},
		{
			name:     "invalid key for assistant",
			err:      wrapProviderError(OpAssistant, ProviderGemini, errors.New("API key not valid")),
			contains: "API key for the assistant is not valid",
		},
		{
			name:     "malformed schedule",
			err:      &schedule.MalformedResponseError{Cause: errors.New("unexpected end of JSON input"), Raw: "{"},
			contains: "invalid schedule format",
		},
		{
			name:     "schedule provider failure",
			err:      wrapProviderError(OpGenerateSchedule, ProviderGemini, errors.New("deadline exceeded")),
			contains: "Failed to generate schedule: deadline exceeded",
		},
		{
			name:     "assistant provider failure",
			err:      wrapProviderError(OpAssistant, ProviderGemini, errors.New("overloaded")),
			contains: "Assistant error: overloaded",
		},
		{name: "no schedule", err: ErrNoActiveSchedule, contains: "no schedule to save"},
		{name: "no speech", err: ErrSpeechUnsupported, contains: "GREENTHUMB_SPEECH_COMMAND"},
		{name: "other", err: errors.New("boom"), contains: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := UserMessage(tt.err)
			if tt.contains == "" {
				assert.Empty(t, message)
				return
			}
			assert.Contains(t, message, tt.contains)
		})
	}
}
