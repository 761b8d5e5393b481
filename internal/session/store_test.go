package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type sessionStoreSuite struct {
	suite.Suite

	kv      port.KVStore
	gateway *fakeGateway
	bus     *bus.Bus
	store   *session.Store

	loggedIn  []domain.UserProfile
	loggedOut int
	subs      []*bus.Subscription
}

// entry point to run the tests in the suite
func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(sessionStoreSuite))
}

// before each test
func (suite *sessionStoreSuite) SetupTest() {
	suite.kv = repository.NewMemoryStore()
	suite.gateway = &fakeGateway{}
	suite.bus = bus.New(nil)
	suite.loggedIn = nil
	suite.loggedOut = 0

	suite.subs = []*bus.Subscription{
		bus.Subscribe(suite.bus, bus.UserLoggedIn, func(u domain.UserProfile) {
			suite.loggedIn = append(suite.loggedIn, u)
		}),
		bus.Subscribe(suite.bus, bus.UserLoggedOut, func(bus.LoggedOut) {
			suite.loggedOut++
		}),
	}

	var err error
	suite.store, err = session.New(suite.kv, suite.gateway, suite.bus, nil)
	suite.Require().NoError(err)
}

// after each test
func (suite *sessionStoreSuite) TearDownTest() {
	for _, s := range suite.subs {
		s.Unsubscribe()
	}
}

func (suite *sessionStoreSuite) TestLogin() {
	user := randomUser()
	token := gofakeit.UUID()
	wantErr := apperr.FromStatus(401, "Invalid credentials", nil)

	tests := []struct {
		name      string
		email     string
		password  string
		gateway   fakeGateway
		wantUser  *domain.UserProfile
		wantError error
		wantCalls int
	}{
		{
			name:      "login: ok",
			email:     user.Email,
			password:  "secret-pass",
			gateway:   fakeGateway{authResult: domain.AuthResult{Token: token, User: user}},
			wantUser:  &user,
			wantCalls: 1,
		},
		{
			name:      "username instead of e-mail: ok",
			email:     user.Username,
			password:  "secret-pass",
			gateway:   fakeGateway{authResult: domain.AuthResult{Token: token, User: user}},
			wantUser:  &user,
			wantCalls: 1,
		},
		{
			name:      "backend rejects credentials: error unchanged",
			email:     user.Email,
			password:  "wrong-pass",
			gateway:   fakeGateway{authErr: wantErr},
			wantError: wantErr,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			*suite.gateway = tt.gateway
			ctx := suite.T().Context()

			got, err := suite.store.Login(ctx, tt.email, tt.password)
			suite.Equal(tt.wantCalls, suite.gateway.loginCalls)

			if tt.wantError != nil {
				suite.ErrorIs(err, tt.wantError)
				suite.Nil(suite.store.CurrentUser(ctx))
				suite.False(suite.store.IsAuthenticated(ctx))
				suite.Empty(suite.loggedIn)
				return
			}

			suite.Require().NoError(err)
			suite.Empty(cmp.Diff(*tt.wantUser, got))
			suite.Empty(cmp.Diff(tt.wantUser, suite.store.CurrentUser(ctx)))
			suite.True(suite.store.IsAuthenticated(ctx))

			sess := suite.store.Session(ctx)
			suite.True(sess.Active())
			suite.Equal(token, sess.Token)

			suite.Len(suite.loggedIn, 1)
		})
	}
}

func (suite *sessionStoreSuite) TestLogin_InvalidInput() {
	_, err := suite.store.Login(suite.T().Context(), "", "")

	suite.True(apperr.Is(err, apperr.Validation))
	ae, _ := apperr.As(err)
	suite.Contains(ae.Fields, "email")
	suite.Contains(ae.Fields, "password")
	suite.Equal(0, suite.gateway.loginCalls)
}

func (suite *sessionStoreSuite) TestLogin_EmptyToken() {
	suite.gateway.authResult = domain.AuthResult{User: randomUser()}

	_, err := suite.store.Login(suite.T().Context(), "jane@example.com", "secret-pass")

	suite.True(apperr.Is(err, apperr.Internal))
	suite.False(suite.store.IsAuthenticated(suite.T().Context()))
}

func (suite *sessionStoreSuite) TestRegister() {
	ctx := suite.T().Context()
	user := randomUser()
	suite.gateway.authResult = domain.AuthResult{Token: gofakeit.UUID(), User: user}

	got, err := suite.store.Register(ctx, randomRegistration())
	suite.Require().NoError(err)

	suite.Empty(cmp.Diff(user, got))
	suite.Empty(cmp.Diff(&user, suite.store.CurrentUser(ctx)))
	suite.Len(suite.loggedIn, 1)
}

func (suite *sessionStoreSuite) TestRegister_Validation() {
	in := randomRegistration()
	in.PasswordConfirm = "something-else"
	in.Password = "short"

	_, err := suite.store.Register(suite.T().Context(), in)

	ae, ok := apperr.As(err)
	suite.Require().True(ok)
	suite.Equal(apperr.Validation, ae.Kind)
	suite.Equal("Must be at least 8 characters.", ae.Fields["password"])
	suite.Equal("Does not match.", ae.Fields["password_confirm"])
	suite.Equal(0, suite.gateway.registerCalls)
}

func (suite *sessionStoreSuite) TestLogout() {
	ctx := suite.T().Context()
	suite.signIn()

	suite.Require().NoError(suite.store.Logout(ctx))

	suite.Equal(1, suite.gateway.logoutCalls)
	suite.Nil(suite.store.CurrentUser(ctx))
	suite.False(suite.store.IsAuthenticated(ctx))
	suite.Equal(1, suite.loggedOut)
}

func (suite *sessionStoreSuite) TestLogout_BackendUnreachable() {
	ctx := suite.T().Context()
	suite.signIn()
	suite.gateway.logoutErr = apperr.NetworkErr(errors.New("connection refused"))

	suite.Require().NoError(suite.store.Logout(ctx))

	suite.Nil(suite.store.CurrentUser(ctx))
	suite.False(suite.store.IsAuthenticated(ctx))
	suite.Equal(1, suite.loggedOut)
}

func (suite *sessionStoreSuite) TestLogout_NotSignedIn() {
	suite.Require().NoError(suite.store.Logout(suite.T().Context()))

	suite.Equal(0, suite.gateway.logoutCalls)
	suite.Equal(1, suite.loggedOut)
}

func (suite *sessionStoreSuite) TestCurrentUser_MalformedProfile() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.kv.Put(ctx, map[string][]byte{
		"auth_token": []byte("abc"),
		"user_data":  []byte("{broken"),
	}))

	suite.Nil(suite.store.CurrentUser(ctx))
	suite.True(suite.store.IsAuthenticated(ctx))
	suite.False(suite.store.Session(ctx).Active())
}

func (suite *sessionStoreSuite) TestUpdateProfile() {
	ctx := suite.T().Context()
	token := suite.signIn()

	updated := randomUser()
	suite.gateway.profile = updated

	got, err := suite.store.UpdateProfile(ctx, domain.ProfileUpdate{FirstName: updated.FirstName})
	suite.Require().NoError(err)

	suite.Empty(cmp.Diff(updated, got))
	suite.Empty(cmp.Diff(&updated, suite.store.CurrentUser(ctx)))
	suite.Equal(token, suite.store.Session(ctx).Token)
	suite.Len(suite.loggedIn, 2)
}

func (suite *sessionStoreSuite) TestUpdateProfile_Failure() {
	ctx := suite.T().Context()
	suite.signIn()
	before := suite.store.CurrentUser(ctx)

	wantErr := apperr.FromStatus(400, "", map[string]string{"email": "Enter a valid email address."})
	suite.gateway.profileErr = wantErr

	_, err := suite.store.UpdateProfile(ctx, domain.ProfileUpdate{Email: "jane@example.com"})

	suite.ErrorIs(err, wantErr)
	suite.Empty(cmp.Diff(before, suite.store.CurrentUser(ctx)))
	suite.Len(suite.loggedIn, 1)
}

func (suite *sessionStoreSuite) TestUpdateProfile_NotSignedIn() {
	_, err := suite.store.UpdateProfile(suite.T().Context(), domain.ProfileUpdate{FirstName: "Jane"})

	ae, ok := apperr.As(err)
	suite.Require().True(ok)
	suite.Equal(apperr.Session, ae.Kind)
	suite.Equal("Please log in to update your profile.", apperr.Message(err))
	suite.Equal(0, suite.gateway.profileCalls)
}

func (suite *sessionStoreSuite) TestUpdateProfile_ImageRejectedLocally() {
	ctx := suite.T().Context()

	tests := []struct {
		name  string
		image domain.ImageUpload
		want  string
	}{
		{
			name:  "unsupported extension: error",
			image: domain.ImageUpload{Filename: "me.bmp", Size: 1024},
			want:  "Supported formats: JPG, PNG, GIF, WebP.",
		},
		{
			name:  "too large: error",
			image: domain.ImageUpload{Filename: "me.png", Size: domain.MaxImageSize + 1},
			want:  "Image size must be less than 5MB.",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			image := tt.image
			_, err := suite.store.UpdateProfile(ctx, domain.ProfileUpdate{Image: &image})

			ae, ok := apperr.As(err)
			suite.Require().True(ok)
			suite.Equal(tt.want, ae.Fields["profile_image"])
			suite.Equal(0, suite.gateway.profileCalls)
		})
	}
}

func (suite *sessionStoreSuite) signIn() string {
	token := gofakeit.UUID()
	suite.gateway.authResult = domain.AuthResult{Token: token, User: randomUser()}

	_, err := suite.store.Login(suite.T().Context(), "jane@example.com", "secret-pass")
	suite.Require().NoError(err)
	return token
}

func TestLogout_CancelledContext(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := repository.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "default")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	b := bus.New(nil)
	loggedOut := 0
	sub := bus.Subscribe(b, bus.UserLoggedOut, func(bus.LoggedOut) { loggedOut++ })
	defer sub.Unsubscribe()

	gateway := &fakeGateway{authResult: domain.AuthResult{Token: gofakeit.UUID(), User: randomUser()}}
	store, err := session.New(kv, gateway, b, nil)
	require.NoError(t, err)

	_, err = store.Login(t.Context(), "jane@example.com", "secret-pass")
	require.NoError(t, err)
	require.True(t, store.IsAuthenticated(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.NoError(t, store.Logout(ctx))

	assert.False(t, store.IsAuthenticated(t.Context()))
	assert.Nil(t, store.CurrentUser(t.Context()))
	assert.False(t, mr.Exists("storefront:default"))
	assert.Equal(t, 1, loggedOut)
}

func TestNew_Validation(t *testing.T) {
	kv := repository.NewMemoryStore()
	b := bus.New(nil)

	_, err := session.New(nil, &fakeGateway{}, b, nil)
	require.EqualError(t, err, "kv is nil")

	_, err = session.New(kv, nil, b, nil)
	require.EqualError(t, err, "gateway is nil")

	_, err = session.New(kv, &fakeGateway{}, nil, nil)
	require.EqualError(t, err, "bus is nil")
}

func TestTokenSource(t *testing.T) {
	ctx := t.Context()
	kv := repository.NewMemoryStore()
	ts := session.NewTokenSource(kv)

	_, ok := ts.Token(ctx)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, map[string][]byte{"auth_token": []byte("abc")}))

	token, ok := ts.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

type fakeGateway struct {
	authResult domain.AuthResult
	authErr    error
	logoutErr  error
	profile    domain.UserProfile
	profileErr error

	loginCalls    int
	registerCalls int
	logoutCalls   int
	profileCalls  int
}

func (f *fakeGateway) Register(_ context.Context, _ domain.Registration) (domain.AuthResult, error) {
	f.registerCalls++
	return f.authResult, f.authErr
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (domain.AuthResult, error) {
	f.loginCalls++
	return f.authResult, f.authErr
}

func (f *fakeGateway) Logout(_ context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeGateway) UpdateProfile(_ context.Context, _ domain.ProfileUpdate) (domain.UserProfile, error) {
	f.profileCalls++
	return f.profile, f.profileErr
}

func randomUser() domain.UserProfile {
	return domain.UserProfile{
		ID:        gofakeit.Int64(),
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Phone:     gofakeit.Phone(),
	}
}

func randomRegistration() domain.Registration {
	password := gofakeit.Password(true, true, true, false, false, 12)
	return domain.Registration{
		Email:           gofakeit.Email(),
		Password:        password,
		PasswordConfirm: password,
		FirstName:       gofakeit.FirstName(),
		LastName:        gofakeit.LastName(),
		Phone:           gofakeit.Phone(),
	}
}
