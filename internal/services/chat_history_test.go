package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenthumb/pkg/gardentypes"
)

func TestHistoryChatSession_ReplaysConversation(t *testing.T) {
	var seen [][]chatTurn
	session := newHistoryChatSession(func(_ context.Context, turns []chatTurn) (string, error) {
		seen = append(seen, turns)
		return "reply " + turns[len(turns)-1].text, nil
	})

	reply, err := session.Send(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "reply first", reply)

	reply, err = session.Send(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, "reply second", reply)

	require.Len(t, seen, 2)
	assert.Equal(t, []chatTurn{
		{sender: gardentypes.SenderUser, text: "first"},
		{sender: gardentypes.SenderAssistant, text: "reply first"},
		{sender: gardentypes.SenderUser, text: "second"},
	}, seen[1])
}

func TestHistoryChatSession_FailedTurnNotRecorded(t *testing.T) {
	fail := true
	var last []chatTurn
	session := newHistoryChatSession(func(_ context.Context, turns []chatTurn) (string, error) {
		last = turns
		if fail {
			return "", errors.New("provider down")
		}
		return "ok", nil
	})

	_, err := session.Send(context.Background(), "lost")
	require.Error(t, err)

	fail = false
	_, err = session.Send(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, []chatTurn{{sender: gardentypes.SenderUser, text: "kept"}}, last)
}
