package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/domain"
)

// RequestAddToCart is what a product card does when its button is pressed.
// The card does not touch the cart; whichever catalog is mounted handles the request.
func RequestAddToCart(b *bus.Bus, product domain.Product, quantity int) {
	bus.Publish(b, bus.AddToCartRequest, bus.AddToCart{Product: product, Quantity: quantity})
}

// Catalog is a product listing page. While mounted it turns add-to-cart
// requests into cart writes followed by a cart-updated notification.
type Catalog struct {
	bus    *bus.Bus
	carts  CartWriter
	logger *slog.Logger

	mu  sync.Mutex
	ctx context.Context
	sub *bus.Subscription
}

func NewCatalog(b *bus.Bus, carts CartWriter, logger *slog.Logger) (*Catalog, error) {
	if b == nil {
		return nil, fmt.Errorf("bus is nil")
	}
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{bus: b, carts: carts, logger: logger.With("component", "catalog")}, nil
}

func (c *Catalog) Mount(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		return
	}
	c.ctx = context.WithoutCancel(ctx)
	c.sub = bus.Subscribe(c.bus, bus.AddToCartRequest, c.handleAddToCart)
}

func (c *Catalog) Unmount() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	sub.Unsubscribe()
}

func (c *Catalog) handleAddToCart(req bus.AddToCart) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	if !req.Product.InStock() {
		c.logger.Warn("product is out of stock", "product_id", req.Product.ID)
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	updated, err := c.carts.AddItem(ctx, req.Product, quantity)
	if err != nil {
		c.logger.Error("add to cart failed", "product_id", req.Product.ID, "error", err)
		return
	}

	bus.Publish(c.bus, bus.CartUpdated, bus.CartChanged{ItemCount: updated.ItemCount()})
}
