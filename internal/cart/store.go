package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

const storageKey = "cart"

// Store is the cart persisted on this device.
// Every mutation rewrites the whole cart before returning. It never publishes notifications.
type Store struct {
	mu     sync.Mutex
	kv     port.KVStore
	logger *slog.Logger
}

func New(kv port.KVStore, logger *slog.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		kv:     kv,
		logger: logger.With("component", "cart"),
	}, nil
}

// GetCart returns the persisted cart. A missing or unreadable value is an empty cart.
func (s *Store) GetCart(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// AddItem merges quantity into the product's line, or appends a new line.
// A non-positive quantity counts as 1. Stock limits are not enforced here.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx)

	i := indexOf(cart.Lines, product.ID)
	var lines []domain.CartLine
	if i < 0 {
		lines = append(slices.Clone(cart.Lines), domain.NewCartLine(product, quantity))
	} else {
		line := cart.Lines[i]
		line.Quantity += quantity
		lines = replaceAt(cart.Lines, i, line)
	}

	return s.save(ctx, lines)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// An unknown product leaves the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx)

	i := indexOf(cart.Lines, productID)
	if i < 0 {
		return cart, nil
	}

	line := cart.Lines[i]
	line.Quantity = quantity

	return s.save(ctx, replaceAt(cart.Lines, i, line))
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx)

	lines := slices.DeleteFunc(slices.Clone(cart.Lines), func(l domain.CartLine) bool {
		return l.ProductID == productID
	})

	return s.save(ctx, lines)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

func (s *Store) Total(ctx context.Context) decimal.Decimal {
	return s.GetCart(ctx).Total()
}

func (s *Store) ItemCount(ctx context.Context) int {
	return s.GetCart(ctx).ItemCount()
}

func (s *Store) load(ctx context.Context) domain.Cart {
	raw, err := s.kv.Get(ctx, storageKey)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Cart{}
	}
	if err != nil {
		s.logger.Warn("cart read failed, using empty cart", "error", err)
		return domain.Cart{}
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Warn("stored cart is malformed, using empty cart", "error", err)
		return domain.Cart{}
	}

	return domain.Cart{Lines: lines}
}

func (s *Store) save(ctx context.Context, lines []domain.CartLine) (domain.Cart, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.kv.Put(ctx, map[string][]byte{storageKey: raw}); err != nil {
		return domain.Cart{}, fmt.Errorf("kv.Put: %w", err)
	}

	return domain.Cart{Lines: lines}, nil
}

func indexOf(lines []domain.CartLine, productID int64) int {
	return slices.IndexFunc(lines, func(l domain.CartLine) bool {
		return l.ProductID == productID
	})
}

// replaceAt returns a copy of lines with the i-th line swapped out.
func replaceAt(lines []domain.CartLine, i int, line domain.CartLine) []domain.CartLine {
	out := slices.Clone(lines)
	out[i] = line
	return out
}
