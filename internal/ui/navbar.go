package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/domain"
)

// NavbarState is what the navigation bar renders.
type NavbarState struct {
	CartCount   int
	SignedIn    bool
	DisplayName string
	AvatarURL   string
}

// Navbar keeps the badge and the signed-in user in sync with the stores
// while it is mounted.
type Navbar struct {
	bus      *bus.Bus
	carts    CartReader
	sessions SessionReader

	mu    sync.Mutex
	ctx   context.Context
	state NavbarState
	subs  []*bus.Subscription
}

func NewNavbar(b *bus.Bus, carts CartReader, sessions SessionReader) (*Navbar, error) {
	if b == nil {
		return nil, fmt.Errorf("bus is nil")
	}
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions is nil")
	}

	return &Navbar{bus: b, carts: carts, sessions: sessions}, nil
}

// Mount reads the current state and subscribes to changes. Mounting twice is a no-op.
func (n *Navbar) Mount(ctx context.Context) {
	n.mu.Lock()
	if n.subs != nil {
		n.mu.Unlock()
		return
	}
	n.ctx = context.WithoutCancel(ctx)
	n.subs = []*bus.Subscription{
		bus.Subscribe(n.bus, bus.CartUpdated, func(bus.CartChanged) { n.refresh() }),
		bus.Subscribe(n.bus, bus.UserLoggedIn, func(domain.UserProfile) { n.refresh() }),
		bus.Subscribe(n.bus, bus.UserLoggedOut, func(bus.LoggedOut) { n.refresh() }),
	}
	n.mu.Unlock()

	n.refresh()
}

func (n *Navbar) Unmount() {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (n *Navbar) State() NavbarState {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.state
}

func (n *Navbar) refresh() {
	n.mu.Lock()
	ctx := n.ctx
	n.mu.Unlock()

	state := NavbarState{CartCount: n.carts.ItemCount(ctx)}
	if user := n.sessions.CurrentUser(ctx); user != nil && n.sessions.IsAuthenticated(ctx) {
		state.SignedIn = true
		state.DisplayName = user.DisplayName()
		state.AvatarURL = user.ProfileImageURL
	}

	n.mu.Lock()
	n.state = state
	n.mu.Unlock()
}
