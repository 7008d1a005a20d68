package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/config"
	"github.com/spec-kit/helpdesk-access/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-access/pkg/util/errorutil"
)

type fakeUserRepo struct {
	users      map[string]*domain.User
	lookupErr  error
	touchErr   error
	touchedIDs []string
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	user, ok := f.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	f.touchedIDs = append(f.touchedIDs, id)
	return f.touchErr
}

type fakeStaffRepo struct {
	profiles map[string]*domain.StaffProfile // keyed by user ID
	err      error
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffProfile, error) {
	for _, profile := range f.profiles {
		if profile.ID == id {
			return profile, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByUserID(_ context.Context, userID string) (*domain.StaffProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return profile, nil
}

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainHasher) Verify(plain, hashed string) bool {
	return hashed == "hash:"+plain
}

type countingSessionStore struct {
	auth.SessionStore
	created int
}

func (c *countingSessionStore) Create(ctx context.Context, principal auth.Principal, clientAddress string) (*auth.Session, error) {
	c.created++
	return c.SessionStore.Create(ctx, principal, clientAddress)
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret",
			SessionTokenTTLMinutes: 60,
			BcryptCost:             4,
		},
	}
}

func newTestService(users *fakeUserRepo, staff *fakeStaffRepo, store auth.SessionStore) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo:     users,
		StaffRepo:    staff,
		SessionStore: store,
		Hasher:       plainHasher{},
		Logger:       zap.NewNop(),
	})
}

func requireDomainError(t *testing.T, err error, code string, status int) {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
	assert.Equal(t, status, de.HTTPStatus)
}

func techUser() *domain.User {
	return &domain.User{
		ID:           "user-1",
		Email:        "tech@example.com",
		PasswordHash: "hash:correct horse",
		Role:         domain.RoleSupportTech,
		Active:       true,
	}
}

func TestLoginSuccess(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	staff := &fakeStaffRepo{profiles: map[string]*domain.StaffProfile{
		"user-1": {ID: "sp-9", UserID: "user-1", DisplayName: "Tech One", Active: true},
	}}
	store := auth.NewMemorySessionStore(auth.DefaultIdleTimeout)
	svc := newTestService(users, staff, store)

	principal, token, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, principal)

	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, domain.RoleSupportTech, principal.Role)
	require.NotNil(t, principal.StaffProfileID)
	assert.Equal(t, "sp-9", *principal.StaffProfileID)

	// the token wraps a live session bound to the login address
	key, err := svc.TokenManager().SessionKey(token)
	require.NoError(t, err)
	loaded, err := store.Validate(context.Background(), key, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.ID)

	assert.Equal(t, []string{"user-1"}, users.touchedIDs)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever", "10.0.0.1")
	requireDomainError(t, err, "INVALID_CREDENTIALS", http.StatusUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	_, _, err := svc.Login(context.Background(), "tech@example.com", "wrong", "10.0.0.1")
	requireDomainError(t, err, "INVALID_CREDENTIALS", http.StatusUnauthorized)
}

func TestLoginDisabledAccountCreatesNoSession(t *testing.T) {
	disabled := techUser()
	disabled.Active = false
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": disabled}}
	store := &countingSessionStore{SessionStore: auth.NewMemorySessionStore(0)}
	svc := newTestService(users, &fakeStaffRepo{}, store)

	_, _, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	requireDomainError(t, err, "ACCOUNT_DISABLED", http.StatusForbidden)
	assert.Zero(t, store.created)
}

// A failing user store must not masquerade as bad credentials.
func TestLoginStoreFailureIsDistinct(t *testing.T) {
	users := &fakeUserRepo{lookupErr: errors.New("connection refused")}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	_, _, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	requireDomainError(t, err, "STORE_UNAVAILABLE", http.StatusServiceUnavailable)
}

func TestLoginLastLoginWriteFailureSwallowed(t *testing.T) {
	users := &fakeUserRepo{
		users:    map[string]*domain.User{"tech@example.com": techUser()},
		touchErr: errors.New("deadlock detected"),
	}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	_, token, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginStaffWithoutProfile(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	principal, _, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, principal.StaffProfileID)
}

func TestLoginClientAccount(t *testing.T) {
	clientID := "client-42"
	users := &fakeUserRepo{users: map[string]*domain.User{"client@example.com": {
		ID:           "user-7",
		Email:        "client@example.com",
		PasswordHash: "hash:pw",
		Role:         domain.RoleClient,
		Active:       true,
		ClientID:     &clientID,
	}}}
	// staff repo that would fail if consulted
	staff := &fakeStaffRepo{err: errors.New("must not be called")}
	svc := newTestService(users, staff, auth.NewMemorySessionStore(0))

	principal, _, err := svc.Login(context.Background(), "client@example.com", "pw", "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, principal.ClientID)
	assert.Equal(t, clientID, *principal.ClientID)
	assert.Nil(t, principal.StaffProfileID)
}

func TestLogoutIdempotent(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	store := auth.NewMemorySessionStore(auth.DefaultIdleTimeout)
	svc := newTestService(users, &fakeStaffRepo{}, store)

	_, token, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	key, err := svc.TokenManager().SessionKey(token)
	require.NoError(t, err)

	first := svc.Logout(context.Background(), token)
	second := svc.Logout(context.Background(), token)
	assert.Equal(t, LoginRedirectPath, first)
	assert.Equal(t, first, second)

	_, err = store.Validate(context.Background(), key, "10.0.0.1")
	assert.ErrorIs(t, err, auth.ErrNoSession)

	// garbage and empty tokens behave the same
	assert.Equal(t, LoginRedirectPath, svc.Logout(context.Background(), "garbage"))
	assert.Equal(t, LoginRedirectPath, svc.Logout(context.Background(), ""))
}

func TestSessionLifecycleAcrossRequests(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	store := auth.NewMemorySessionStore(auth.DefaultIdleTimeout).
		WithClock(func() time.Time { return now })

	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	svc := newTestService(users, &fakeStaffRepo{}, store)

	_, token, err := svc.Login(context.Background(), "tech@example.com", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	key, err := svc.TokenManager().SessionKey(token)
	require.NoError(t, err)

	// second request 59 minutes later succeeds and refreshes the window
	now = base.Add(59 * time.Minute)
	_, err = store.Validate(context.Background(), key, "10.0.0.1")
	require.NoError(t, err)

	// third request 61 minutes after the second fails and kills the session
	now = now.Add(61 * time.Minute)
	_, err = store.Validate(context.Background(), key, "10.0.0.1")
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	_, err = store.Validate(context.Background(), key, "10.0.0.1")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestLoginEmailIsExactMatch(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{"tech@example.com": techUser()}}
	svc := newTestService(users, &fakeStaffRepo{}, auth.NewMemorySessionStore(0))

	_, _, err := svc.Login(context.Background(), strings.ToUpper("tech@example.com"), "correct horse", "10.0.0.1")
	requireDomainError(t, err, "INVALID_CREDENTIALS", http.StatusUnauthorized)
}
