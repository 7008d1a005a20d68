package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-access/internal/events"
	apperrors "github.com/spec-kit/helpdesk-access/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "helpdesk_session"

// SessionMiddleware resolves the session token, validates the session and
// loads the Principal for downstream handlers.
type SessionMiddleware struct {
	tokens     *TokenManager
	sessions   SessionStore
	dispatcher events.Dispatcher
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, sessions SessionStore, dispatcher events.Dispatcher) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, sessions: sessions, dispatcher: dispatcher}
}

// Handle enforces a live session for protected routes. Any session failure
// surfaces as unauthenticated; the session itself is already destroyed by
// the store at that point.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	if token == "" {
		return apperrors.NewUnauthenticated("authentication required")
	}

	key, err := m.tokens.SessionKey(token)
	if err != nil {
		return apperrors.NewUnauthenticated("invalid session token")
	}

	principal, err := m.sessions.Validate(c.Context(), key, c.IP())
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrSessionRebound) {
			m.publishTerminated(c, err)
		}
		return apperrors.NewUnauthenticated("session no longer valid")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *SessionMiddleware) publishTerminated(c *fiber.Ctx, cause error) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(c.Context(), events.NewEvent(events.EventSessionTerminated, events.SessionTerminatedPayload{
		Reason:          cause.Error(),
		ObservedAddress: c.IP(),
	}))
}

// TokenFromRequest extracts the session token from the session cookie or a
// bearer Authorization header, cookie first.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie
	}
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
