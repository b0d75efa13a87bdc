package services

import (
	"context"
	"sync"

	"greenthumb/pkg/gardentypes"
)

// chatTurn is one message of a provider conversation.
type chatTurn struct {
	sender gardentypes.Sender
	text   string
}

// completeFunc sends the whole conversation to a provider and returns the next reply.
type completeFunc func(ctx context.Context, turns []chatTurn) (string, error)

// historyChatSession implements gardentypes.ChatSession by replaying the accumulated
// conversation on every turn. A failed turn is not recorded.
type historyChatSession struct {
	mu       sync.Mutex
	turns    []chatTurn
	complete completeFunc
}

func newHistoryChatSession(complete completeFunc) *historyChatSession {
	return &historyChatSession{complete: complete}
}

// Send appends text as a user turn, asks the provider for a reply and records both.
func (s *historyChatSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]chatTurn, len(s.turns), len(s.turns)+2)
	copy(turns, s.turns)
	turns = append(turns, chatTurn{sender: gardentypes.SenderUser, text: text})

	reply, err := s.complete(ctx, turns)
	if err != nil {
		return "", err
	}

	s.turns = append(turns, chatTurn{sender: gardentypes.SenderAssistant, text: reply})
	return reply, nil
}
