package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/chat"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_KeepsSessionID(t *testing.T) {
	ctx := t.Context()
	gw := &fakeChat{replySessionID: "s-1"}
	a, err := chat.NewAssistant(gw)
	require.NoError(t, err)

	reply, err := a.Send(ctx, "  Do you deliver on Sundays?  ")
	require.NoError(t, err)
	assert.Equal(t, "echo: Do you deliver on Sundays?", reply.Response)
	assert.Equal(t, "s-1", a.SessionID())

	gw.replySessionID = "s-2"
	_, err = a.Send(ctx, "And Mondays?")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "s-1"}, gw.sentSessionIDs)
	assert.Equal(t, "s-1", a.SessionID())
}

func TestSend_EmptyMessage(t *testing.T) {
	gw := &fakeChat{}
	a, err := chat.NewAssistant(gw)
	require.NoError(t, err)

	_, err = a.Send(t.Context(), "   ")

	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Empty(t, gw.sentSessionIDs)
}

func TestSend_GatewayError(t *testing.T) {
	gw := &fakeChat{err: apperr.NetworkErr(errors.New("timeout"))}
	a, err := chat.NewAssistant(gw)
	require.NoError(t, err)

	_, err = a.Send(t.Context(), "hi")

	assert.True(t, apperr.Is(err, apperr.Network))
	assert.Empty(t, a.SessionID())
}

func TestHistory(t *testing.T) {
	ctx := t.Context()
	a, err := chat.NewAssistant(&fakeChat{})
	require.NoError(t, err)

	_, err = a.History(ctx)
	assert.ErrorIs(t, err, chat.ErrNoConversation)

	a.Resume("s-9")
	conv, err := a.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s-9", conv.SessionID)
}

func TestHealth(t *testing.T) {
	a, err := chat.NewAssistant(&fakeChat{})
	require.NoError(t, err)

	health, err := a.Health(t.Context())
	require.NoError(t, err)
	assert.True(t, health.Ready)
}

func TestNewAssistant_Validation(t *testing.T) {
	_, err := chat.NewAssistant(nil)
	require.EqualError(t, err, "gateway is nil")
}

type fakeChat struct {
	replySessionID string
	err            error
	sentSessionIDs []string
}

func (f *fakeChat) Chat(_ context.Context, message, sessionID string) (domain.ChatReply, error) {
	f.sentSessionIDs = append(f.sentSessionIDs, sessionID)
	if f.err != nil {
		return domain.ChatReply{}, f.err
	}
	return domain.ChatReply{Response: "echo: " + message, SessionID: f.replySessionID}, nil
}

func (f *fakeChat) ChatHistory(_ context.Context, sessionID string) (domain.Conversation, error) {
	return domain.Conversation{SessionID: sessionID}, nil
}

func (f *fakeChat) ChatHealth(context.Context) (domain.ChatHealth, error) {
	return domain.ChatHealth{Status: "healthy", Ready: true}, nil
}
