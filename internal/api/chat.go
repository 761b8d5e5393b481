package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nikolayk812/storefront/internal/domain"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Chat sends one message to the store assistant. An empty sessionID starts a new conversation.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (domain.ChatReply, error) {
	var reply domain.ChatReply
	if err := c.sendJSON(ctx, http.MethodPost, "/chatbot/chat/", chatRequest{Message: message, SessionID: sessionID}, &reply); err != nil {
		return domain.ChatReply{}, err
	}
	return reply, nil
}

func (c *Client) ChatHistory(ctx context.Context, sessionID string) (domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.getJSON(ctx, "/chatbot/conversation/"+url.PathEscape(sessionID)+"/", nil, &conv); err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

func (c *Client) ChatHealth(ctx context.Context) (domain.ChatHealth, error) {
	var health domain.ChatHealth
	if err := c.getJSON(ctx, "/chatbot/health/", nil, &health); err != nil {
		return domain.ChatHealth{}, err
	}
	return health, nil
}
