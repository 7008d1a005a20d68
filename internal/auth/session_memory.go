package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySessionStore is an in-process SessionStore. A per-session mutex
// serializes the LastActivity refresh so concurrent requests on one session
// cannot race a stale read past the idle-timeout check.
type MemorySessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*memorySession
	idleTimeout time.Duration
	now         func() time.Time
}

type memorySession struct {
	mu      sync.Mutex
	session Session
}

// NewMemorySessionStore builds a store with the given idle timeout.
func NewMemorySessionStore(idleTimeout time.Duration) *MemorySessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &MemorySessionStore{
		sessions:    make(map[string]*memorySession),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *MemorySessionStore) WithClock(now func() time.Time) *MemorySessionStore {
	s.now = now
	return s
}

// Create starts a new session bound to the observed client address.
func (s *MemorySessionStore) Create(_ context.Context, principal Principal, clientAddress string) (*Session, error) {
	entry := &memorySession{session: Session{
		Key:          uuid.NewString(),
		Principal:    principal,
		LastActivity: s.now(),
		BoundAddress: clientAddress,
	}}

	s.mu.Lock()
	s.sessions[entry.session.Key] = entry
	s.mu.Unlock()

	snapshot := entry.session
	return &snapshot, nil
}

// Validate checks session freshness and address binding, refreshing the
// activity timestamp on surviving sessions and destroying failed ones.
func (s *MemorySessionStore) Validate(_ context.Context, key, observedAddress string) (*Principal, error) {
	s.mu.RLock()
	entry, ok := s.sessions[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}

	entry.mu.Lock()
	err := checkSession(&entry.session, observedAddress, s.now(), s.idleTimeout)
	principal := entry.session.Principal
	entry.mu.Unlock()

	if err != nil {
		s.mu.Lock()
		delete(s.sessions, key)
		s.mu.Unlock()
		return nil, err
	}
	return &principal, nil
}

// Destroy removes the session. Unknown keys are a no-op.
func (s *MemorySessionStore) Destroy(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}
