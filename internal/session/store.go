package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/validation"
)

const (
	tokenKey = "auth_token"
	userKey  = "user_data"
)

// Store holds the signed-in identity. Token and profile are always written and removed together.
type Store struct {
	mu      sync.Mutex
	kv      port.KVStore
	gateway port.AuthGateway
	bus     *bus.Bus
	logger  *slog.Logger
}

func New(kv port.KVStore, gateway port.AuthGateway, b *bus.Bus, logger *slog.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv is nil")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if b == nil {
		return nil, fmt.Errorf("bus is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		kv:      kv,
		gateway: gateway,
		bus:     b,
		logger:  logger.With("component", "session"),
	}, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (domain.UserProfile, error) {
	if err := validation.Struct(domain.Credentials{Email: email, Password: password}); err != nil {
		return domain.UserProfile{}, err
	}

	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return s.signIn(ctx, res)
}

func (s *Store) Register(ctx context.Context, in domain.Registration) (domain.UserProfile, error) {
	if err := validation.Struct(in); err != nil {
		return domain.UserProfile{}, err
	}

	res, err := s.gateway.Register(ctx, in)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return s.signIn(ctx, res)
}

// Logout ends the session locally even when the backend cannot be reached.
// Only a failure to clear local storage is returned.
func (s *Store) Logout(ctx context.Context) error {
	if s.IsAuthenticated(ctx) {
		if err := s.gateway.Logout(ctx); err != nil {
			s.logger.Warn("backend logout failed", "error", err)
		}
	}

	// cleared even when ctx is already done
	s.mu.Lock()
	err := s.kv.Delete(context.WithoutCancel(ctx), tokenKey, userKey)
	s.mu.Unlock()

	bus.Publish(s.bus, bus.UserLoggedOut, bus.LoggedOut{})

	if err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

// CurrentUser returns the cached profile, or nil when there is none or it cannot be read.
func (s *Store) CurrentUser(ctx context.Context) *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadUser(ctx)
}

// IsAuthenticated only checks that a token is held; it is not verified with the backend.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := readToken(ctx, s.kv)
	return ok
}

// Session returns the token and profile as a pair. A token without a readable profile is reported as no session.
func (s *Store) Session(ctx context.Context) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := readToken(ctx, s.kv)
	if !ok {
		return domain.Session{}
	}
	user := s.loadUser(ctx)
	if user == nil {
		return domain.Session{}
	}
	return domain.Session{Token: token, User: user}
}

// UpdateProfile sends the changed fields and replaces the cached profile with the backend's answer.
// Nothing changes locally when the call fails.
func (s *Store) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (domain.UserProfile, error) {
	if err := validateProfileUpdate(in); err != nil {
		return domain.UserProfile{}, err
	}
	if !s.IsAuthenticated(ctx) {
		return domain.UserProfile{}, apperr.SessionErr("Please log in to update your profile.")
	}

	user, err := s.gateway.UpdateProfile(ctx, in)
	if err != nil {
		return domain.UserProfile{}, err
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("json.Marshal: %w", err)
	}

	s.mu.Lock()
	err = s.kv.Put(ctx, map[string][]byte{userKey: raw})
	s.mu.Unlock()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("kv.Put: %w", err)
	}

	bus.Publish(s.bus, bus.UserLoggedIn, user)

	return user, nil
}

func (s *Store) signIn(ctx context.Context, res domain.AuthResult) (domain.UserProfile, error) {
	if res.Token == "" {
		return domain.UserProfile{}, apperr.Wrap(errors.New("backend returned an empty token"))
	}

	raw, err := json.Marshal(res.User)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("json.Marshal: %w", err)
	}

	s.mu.Lock()
	err = s.kv.Put(ctx, map[string][]byte{
		tokenKey: []byte(res.Token),
		userKey:  raw,
	})
	s.mu.Unlock()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("kv.Put: %w", err)
	}

	s.logger.Info("signed in", "user_id", res.User.ID)
	bus.Publish(s.bus, bus.UserLoggedIn, res.User)

	return res.User, nil
}

func (s *Store) loadUser(ctx context.Context) *domain.UserProfile {
	raw, err := s.kv.Get(ctx, userKey)
	if errors.Is(err, port.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("profile read failed", "error", err)
		return nil
	}

	var user domain.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn("stored profile is malformed", "error", err)
		return nil
	}
	return &user
}

func validateProfileUpdate(in domain.ProfileUpdate) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	if in.Image == nil {
		return nil
	}
	if !in.Image.HasAllowedExtension() {
		return apperr.ValidationErr("invalid input", map[string]string{
			"profile_image": "Supported formats: JPG, PNG, GIF, WebP.",
		})
	}
	if in.Image.Size > domain.MaxImageSize {
		return apperr.ValidationErr("invalid input", map[string]string{
			"profile_image": "Image size must be less than 5MB.",
		})
	}
	return nil
}
