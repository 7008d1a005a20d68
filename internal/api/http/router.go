package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-access/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/authz"
	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Tickets           *handlers.TicketsHandler
	SessionMiddleware *auth.SessionMiddleware
	Engine            *authz.Engine
}

// RegisterRoutes wires HTTP routes. Logout is deliberately outside the
// session middleware so a dead session can still log out cleanly.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.Auth.Logout)

	protected := app.Group("", cfg.SessionMiddleware.Handle)
	protected.Get("/tickets", cfg.Tickets.List)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Get("/tickets/:id/attachments/:attachmentID", cfg.Tickets.GetAttachment)

	// Reporting views require manager level; the 403 here is distinct
	// from the 401 an expired session produces.
	reports := protected.Group("/reports", cfg.Engine.RequireRoleHandler(domain.RoleManager))
	reports.Get("/tickets", cfg.Tickets.List)
}
