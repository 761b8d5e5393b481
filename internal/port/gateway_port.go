package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type AuthGateway interface {
	Register(ctx context.Context, in domain.Registration) (domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (domain.AuthResult, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (domain.UserProfile, error)
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error)
}

type ChatGateway interface {
	Chat(ctx context.Context, message, sessionID string) (domain.ChatReply, error)
	ChatHistory(ctx context.Context, sessionID string) (domain.Conversation, error)
	ChatHealth(ctx context.Context) (domain.ChatHealth, error)
}

// TokenSource yields the credential attached to outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}
