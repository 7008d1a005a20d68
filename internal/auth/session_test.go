package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-access/internal/domain"
)

func testPrincipal() Principal {
	return Principal{ID: "user-1", Email: "tech@example.com", Role: domain.RoleSupportTech}
}

func newTestStore(now *time.Time) *MemorySessionStore {
	return NewMemorySessionStore(DefaultIdleTimeout).WithClock(func() time.Time { return *now })
}

func TestSessionIdleTimeoutBoundary(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		idle  time.Duration
		valid bool
	}{
		{"just inside window", 3599 * time.Second, true},
		{"exactly at limit still valid", 3600 * time.Second, true},
		{"one past limit", 3601 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := base
			store := newTestStore(&now)

			session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
			require.NoError(t, err)

			now = base.Add(tc.idle)
			principal, err := store.Validate(ctx, session.Key, "10.0.0.1")
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, "user-1", principal.ID)
			} else {
				assert.ErrorIs(t, err, ErrSessionExpired)
				// terminal: the session is gone
				_, err = store.Validate(ctx, session.Key, "10.0.0.1")
				assert.ErrorIs(t, err, ErrNoSession)
			}
		})
	}
}

func TestSessionAddressRebinding(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(&now)

	session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
	require.NoError(t, err)

	// well within the timeout window, but from a different address
	now = now.Add(time.Minute)
	_, err = store.Validate(ctx, session.Key, "10.9.9.9")
	assert.ErrorIs(t, err, ErrSessionRebound)

	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRefreshExtendsWindow(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	store := newTestStore(&now)

	session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
	require.NoError(t, err)

	// second request 59 minutes later succeeds and refreshes activity
	now = base.Add(59 * time.Minute)
	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	require.NoError(t, err)

	// 59 minutes after the refresh is still inside the window
	now = now.Add(59 * time.Minute)
	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	require.NoError(t, err)

	// 61 minutes after that is not
	now = now.Add(61 * time.Minute)
	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionCorruptFieldsDestroySession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(&now)

	session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
	require.NoError(t, err)

	store.mu.Lock()
	store.sessions[session.Key].session.LastActivity = time.Time{}
	store.mu.Unlock()

	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	assert.ErrorIs(t, err, ErrSessionCorrupt)
	_, err = store.Validate(ctx, session.Key, "10.0.0.1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDestroyIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newTestStore(&now)

	session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, session.Key))
	require.NoError(t, store.Destroy(ctx, session.Key))
	require.NoError(t, store.Destroy(ctx, "never-existed"))
}

// checkSession refreshes activity before the binding check and does not
// roll the refresh back when the binding fails.
func TestCheckSessionRefreshPrecedesBindingCheck(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base.Add(30 * time.Minute)

	session := &Session{
		Principal:    testPrincipal(),
		LastActivity: base,
		BoundAddress: "10.0.0.1",
	}

	err := checkSession(session, "10.9.9.9", now, DefaultIdleTimeout)
	assert.ErrorIs(t, err, ErrSessionRebound)
	assert.Equal(t, now, session.LastActivity)
}

func TestCheckSessionOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// corruption wins over everything
	session := &Session{BoundAddress: "10.0.0.1"}
	assert.ErrorIs(t, checkSession(session, "10.0.0.1", base, DefaultIdleTimeout), ErrSessionCorrupt)

	// timeout wins over a stale binding
	session = &Session{LastActivity: base.Add(-2 * time.Hour), BoundAddress: "10.0.0.1"}
	assert.ErrorIs(t, checkSession(session, "10.9.9.9", base, DefaultIdleTimeout), ErrSessionExpired)
}

func TestValidateConcurrentRefresh(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newTestStore(&now)

	session, err := store.Create(ctx, testPrincipal(), "10.0.0.1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Validate(ctx, session.Key, "10.0.0.1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestValidateUnknownKey(t *testing.T) {
	now := time.Now()
	store := newTestStore(&now)
	_, err := store.Validate(context.Background(), "nope", "10.0.0.1")
	assert.ErrorIs(t, err, ErrNoSession)
}
