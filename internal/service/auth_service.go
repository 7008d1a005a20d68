package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/config"
	"github.com/spec-kit/helpdesk-access/internal/domain"
	"github.com/spec-kit/helpdesk-access/internal/events"
	"github.com/spec-kit/helpdesk-access/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-access/pkg/util/errorutil"
)

// LoginRedirectPath is where logged-out callers are sent.
const LoginRedirectPath = "/login"

// AuthService coordinates login and logout flows: credential verification,
// principal construction and session lifecycle.
type AuthService struct {
	users      repository.UserRepository
	staff      repository.StaffProfileRepository
	sessions   auth.SessionStore
	hasher     auth.PasswordHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	StaffRepo    repository.StaffProfileRepository
	SessionStore auth.SessionStore
	Hasher       auth.PasswordHasher
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	}
	return &AuthService{
		users:      deps.UserRepo,
		staff:      deps.StaffRepo,
		sessions:   deps.SessionStore,
		hasher:     hasher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Login authenticates by email and password, binds a fresh session to the
// observed client address, and returns the principal with its signed
// session token. Credential failures, disabled accounts and store outages
// surface as distinct error codes.
func (s *AuthService) Login(ctx context.Context, email, password, observedAddress string) (*auth.Principal, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publishLoginFailed(ctx, email, "unknown email", observedAddress)
			return nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, "", apperrors.NewStoreUnavailable(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.publishLoginFailed(ctx, email, "password mismatch", observedAddress)
		return nil, "", apperrors.NewInvalidCredentials()
	}

	if !user.Active {
		s.publishLoginFailed(ctx, email, "account disabled", observedAddress)
		return nil, "", apperrors.NewAccountDisabled()
	}

	principal, err := s.buildPrincipal(ctx, user)
	if err != nil {
		return nil, "", err
	}

	session, err := s.sessions.Create(ctx, *principal, observedAddress)
	if err != nil {
		return nil, "", apperrors.NewStoreUnavailable(err)
	}

	token, err := s.tokenMgr.Issue(session.Key)
	if err != nil {
		_ = s.sessions.Destroy(ctx, session.Key)
		return nil, "", apperrors.NewInternalError(err)
	}

	// Recording the login timestamp is best effort; a failed write must
	// not fail the login.
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventLoginSucceeded, events.LoginSucceededPayload{
			Role:            string(principal.Role),
			ObservedAddress: observedAddress,
		}).WithActor(principal.ID, principal.Email))
	}

	return principal, token, nil
}

// buildPrincipal snapshots the user's identity, loading the staff profile
// for staff-typed roles. A missing profile is not an error; the principal
// just carries no profile and its visibility narrows accordingly.
func (s *AuthService) buildPrincipal(ctx context.Context, user *domain.User) (*auth.Principal, error) {
	principal := &auth.Principal{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		ClientID: user.ClientID,
	}

	if auth.IsStaff(user.Role) {
		profile, err := s.staff.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			principal.StaffProfileID = &profile.ID
		case errors.Is(err, pgx.ErrNoRows):
			// staff account without a profile record
		default:
			return nil, apperrors.NewStoreUnavailable(err)
		}
	}

	return principal, nil
}

// Logout destroys the session behind the token, if any, and returns the
// redirect target. It never fails: an absent, invalid or already-destroyed
// session is a no-op and yields the same redirect.
func (s *AuthService) Logout(ctx context.Context, token string) string {
	if token == "" {
		return LoginRedirectPath
	}

	key, err := s.tokenMgr.SessionKey(token)
	if err != nil {
		return LoginRedirectPath
	}

	if err := s.sessions.Destroy(ctx, key); err != nil {
		s.logger.Warn("session destroy failed during logout", zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventLogout, nil))
	}
	return LoginRedirectPath
}

func (s *AuthService) publishLoginFailed(ctx context.Context, email, reason, observedAddress string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventLoginFailed, events.LoginFailedPayload{
		Email:           email,
		Reason:          reason,
		ObservedAddress: observedAddress,
	}))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
