package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var ErrNoConversation = errors.New("no conversation yet")

// Assistant is one chat window. The first reply's session id is reused for
// every later message so the backend keeps the conversation together.
type Assistant struct {
	gateway port.ChatGateway

	mu        sync.Mutex
	sessionID string
}

func NewAssistant(gateway port.ChatGateway) (*Assistant, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	return &Assistant{gateway: gateway}, nil
}

// Resume continues an earlier conversation.
func (a *Assistant) Resume(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sessionID = sessionID
}

func (a *Assistant) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.sessionID
}

func (a *Assistant) Send(ctx context.Context, message string) (domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ChatReply{}, apperr.ValidationErr("invalid input", map[string]string{"message": "This field is required."})
	}

	reply, err := a.gateway.Chat(ctx, message, a.SessionID())
	if err != nil {
		return domain.ChatReply{}, err
	}

	if reply.SessionID != "" {
		a.mu.Lock()
		if a.sessionID == "" {
			a.sessionID = reply.SessionID
		}
		a.mu.Unlock()
	}

	return reply, nil
}

func (a *Assistant) History(ctx context.Context) (domain.Conversation, error) {
	id := a.SessionID()
	if id == "" {
		return domain.Conversation{}, ErrNoConversation
	}
	return a.gateway.ChatHistory(ctx, id)
}

func (a *Assistant) Health(ctx context.Context) (domain.ChatHealth, error) {
	return a.gateway.ChatHealth(ctx)
}
