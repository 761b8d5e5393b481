package ui

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type CartReader interface {
	ItemCount(ctx context.Context) int
}

type CartWriter interface {
	AddItem(ctx context.Context, product domain.Product, quantity int) (domain.Cart, error)
}

type SessionReader interface {
	CurrentUser(ctx context.Context) *domain.UserProfile
	IsAuthenticated(ctx context.Context) bool
}
