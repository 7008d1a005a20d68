package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-access/internal/api/dto"
	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/service"
)

// AuthHandler exposes login and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	principal, token, err := h.auth.Login(c.Context(), req.Email, req.Password, c.IP())
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Token: token,
			User: dto.PrincipalView{
				ID:             principal.ID,
				Email:          principal.Email,
				Role:           string(principal.Role),
				StaffProfileID: principal.StaffProfileID,
				ClientID:       principal.ClientID,
			},
		},
	})
}

// Logout handles POST /auth/logout. Safe to call with or without a live
// session; a repeated call yields the same redirect.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	redirect := h.auth.Logout(c.Context(), auth.TokenFromRequest(c))

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"data": dto.LogoutResponse{Redirect: redirect},
	})
}
