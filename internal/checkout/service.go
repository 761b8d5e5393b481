package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSubmissionInProgress = errors.New("an order is already being submitted")
)

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingFee       = decimal.NewFromInt(5)
)

type Summary struct {
	ItemCount int
	Subtotal  domain.Money
	Shipping  domain.Money
	Total     domain.Money
	// RemainingForFreeShipping is zero once the subtotal reaches the threshold.
	RemainingForFreeShipping domain.Money
}

func (s Summary) FreeShipping() bool {
	return s.Shipping.Amount.IsZero()
}

type Service struct {
	carts    *cart.Store
	orders   port.OrderGateway
	bus      *bus.Bus
	currency currency.Unit
	logger   *slog.Logger

	submitting atomic.Bool
}

func New(carts *cart.Store, orders port.OrderGateway, b *bus.Bus, cur currency.Unit, logger *slog.Logger) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if b == nil {
		return nil, fmt.Errorf("bus is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		carts:    carts,
		orders:   orders,
		bus:      b,
		currency: cur,
		logger:   logger.With("component", "checkout"),
	}, nil
}

func (s *Service) Summary(ctx context.Context) Summary {
	return s.summarize(s.carts.GetCart(ctx))
}

// PlaceOrder submits the current cart. While one submission is outstanding every
// other call fails with ErrSubmissionInProgress. The cart is cleared only after the
// backend accepted the order.
func (s *Service) PlaceOrder(ctx context.Context, info domain.ShippingInfo) (domain.Order, error) {
	if err := validation.Struct(info); err != nil {
		return domain.Order{}, err
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return domain.Order{}, ErrSubmissionInProgress
	}
	defer s.submitting.Store(false)

	current := s.carts.GetCart(ctx)
	if current.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	summary := s.summarize(current)

	order, err := s.orders.CreateOrder(ctx, domain.NewOrderFromCart(info, current, summary.Total.Amount))
	if err != nil {
		return domain.Order{}, err
	}

	// the order is placed at this point: clearing is best effort and ignores cancellation of ctx
	after := context.WithoutCancel(ctx)
	if err := s.carts.Clear(after); err != nil {
		s.logger.Error("failed to clear cart after order", "order_id", order.ID, "error", err)
	}
	bus.Publish(s.bus, bus.CartUpdated, bus.CartChanged{ItemCount: s.carts.ItemCount(after)})

	s.logger.Info("order placed", "order_id", order.ID, "total", summary.Total.String())

	return order, nil
}

func (s *Service) summarize(c domain.Cart) Summary {
	subtotal := c.Total()

	shipping := flatShippingFee
	remaining := freeShippingThreshold.Sub(subtotal)
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
		remaining = decimal.Zero
	}

	return Summary{
		ItemCount:                c.ItemCount(),
		Subtotal:                 domain.NewMoney(subtotal, s.currency),
		Shipping:                 domain.NewMoney(shipping, s.currency),
		Total:                    domain.NewMoney(subtotal.Add(shipping), s.currency),
		RemainingForFreeShipping: domain.NewMoney(remaining, s.currency),
	}
}
