package auth

import (
	"context"
	"errors"
	"time"
)

// DefaultIdleTimeout is the idle window after which a session dies.
const DefaultIdleTimeout = 3600 * time.Second

var (
	// ErrNoSession indicates the key resolves to no live session.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired indicates the idle timeout was exceeded.
	ErrSessionExpired = errors.New("session idle timeout exceeded")
	// ErrSessionRebound indicates the observed client address no longer
	// matches the address bound at login.
	ErrSessionRebound = errors.New("session client address changed")
	// ErrSessionCorrupt indicates required session fields are missing.
	ErrSessionCorrupt = errors.New("session state corrupt")
)

// Session binds a Principal to a live client session. BoundAddress is the
// network address observed at login; LastActivity is refreshed on every
// validated request.
type Session struct {
	Key          string    `json:"key"`
	Principal    Principal `json:"principal"`
	LastActivity time.Time `json:"last_activity"`
	BoundAddress string    `json:"bound_address"`
}

// SessionStore owns session lifecycle transitions. Validate returns the
// session's Principal when the session survives; any of ErrNoSession,
// ErrSessionExpired, ErrSessionRebound or ErrSessionCorrupt means the
// session has been destroyed and the caller must re-authenticate. Destroy
// is idempotent: unknown keys are not an error.
type SessionStore interface {
	Create(ctx context.Context, principal Principal, clientAddress string) (*Session, error)
	Validate(ctx context.Context, key, observedAddress string) (*Principal, error)
	Destroy(ctx context.Context, key string) error
}

// checkSession applies the validity rules to a session snapshot, in order:
// field corruption, idle timeout (strictly greater than, so a session idle
// for exactly the timeout is still valid), activity refresh, address
// binding. The refresh happens before the binding check and is not rolled
// back when the binding fails. A nil return means the session survives with
// LastActivity refreshed; any error is terminal for the session.
func checkSession(s *Session, observedAddress string, now time.Time, idleTimeout time.Duration) error {
	if s.LastActivity.IsZero() || s.BoundAddress == "" {
		return ErrSessionCorrupt
	}
	if now.Sub(s.LastActivity) > idleTimeout {
		return ErrSessionExpired
	}
	s.LastActivity = now
	if observedAddress != s.BoundAddress {
		return ErrSessionRebound
	}
	return nil
}
