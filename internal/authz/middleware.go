package authz

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// RequireAuthenticated ensures a principal was loaded by the session
// middleware.
func (e *Engine) RequireAuthenticatedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		if err := e.RequireAuthenticated(principal); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoleHandler ensures the principal carries at least the required
// hierarchy level.
func (e *Engine) RequireRoleHandler(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		if err := e.RequireRole(principal, required); err != nil {
			return err
		}
		return c.Next()
	}
}
