package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/chat"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/nikolayk812/storefront/internal/ui"
	"golang.org/x/text/currency"
)

// app is built once per command invocation and shared by reference.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	kv       port.KVStore
	bus      *bus.Bus
	client   *api.Client
	carts    *cart.Store
	sessions *session.Store
	checkout *checkout.Service
	navbar   *ui.Navbar
	catalog  *ui.Catalog
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, err
	}

	kv, err := repository.Open(ctx, cfg.Storage())
	if err != nil {
		return nil, fmt.Errorf("repository.Open: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, kv: kv, bus: bus.New(logger)}

	if err := a.wire(unit); err != nil {
		return nil, errors.Join(err, kv.Close())
	}

	logger.Debug("storefront ready", "api", cfg.APIURL, "storage", cfg.StorageDriver, "profile", cfg.Profile)

	return a, nil
}

func (a *app) wire(unit currency.Unit) error {
	var err error

	a.client, err = api.New(a.cfg.APIURL, session.NewTokenSource(a.kv), api.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	a.carts, err = cart.New(a.kv, a.logger)
	if err != nil {
		return fmt.Errorf("cart.New: %w", err)
	}

	a.sessions, err = session.New(a.kv, a.client, a.bus, a.logger)
	if err != nil {
		return fmt.Errorf("session.New: %w", err)
	}

	a.checkout, err = checkout.New(a.carts, a.client, a.bus, unit, a.logger)
	if err != nil {
		return fmt.Errorf("checkout.New: %w", err)
	}

	a.navbar, err = ui.NewNavbar(a.bus, a.carts, a.sessions)
	if err != nil {
		return fmt.Errorf("ui.NewNavbar: %w", err)
	}

	a.catalog, err = ui.NewCatalog(a.bus, a.carts, a.logger)
	if err != nil {
		return fmt.Errorf("ui.NewCatalog: %w", err)
	}

	return nil
}

func (a *app) assistant(sessionID string) (*chat.Assistant, error) {
	assistant, err := chat.NewAssistant(a.client)
	if err != nil {
		return nil, fmt.Errorf("chat.NewAssistant: %w", err)
	}
	if sessionID != "" {
		assistant.Resume(sessionID)
	}
	return assistant, nil
}

func (a *app) Close() error {
	a.navbar.Unmount()
	a.catalog.Unmount()
	return a.kv.Close()
}
