package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/api/dto"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/service"
	apperrors "github.com/spec-kit/invoice-service/pkg/util/errorutil"
)

const invalidCredentialsMessage = "Invalid credentials."

// SignInService opens and closes sessions.
type SignInService interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, string, time.Time, error)
	SignOut(ctx context.Context, token string) error
}

// AuthHandler exposes sign-in and sign-out.
type AuthHandler struct {
	auth         SignInService
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService SignInService, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, cookieSecure: cookieSecure, logger: logger}
}

// LoginPage handles GET /login. Signed-in visitors never get here; the guard
// redirects them to the dashboard.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{auth.CallbackParam: auth.SafeCallback(c.Query(auth.CallbackParam))})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(dto.MessageResponse{Message: invalidCredentialsMessage})
	}
	callback := req.CallbackURL
	if callback == "" {
		callback = c.Query(auth.CallbackParam)
	}

	_, token, expiresAt, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.Status(http.StatusUnauthorized).JSON(dto.MessageResponse{Message: invalidCredentialsMessage})
	}
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(auth.SafeCallback(callback), http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.SignOut(c.UserContext(), c.Cookies(auth.SessionCookie)); err != nil {
		// the cookie is cleared regardless
		h.logger.Warn("session revoke failed", zap.Error(err))
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(auth.LoginPath, http.StatusSeeOther)
}

// Dashboard handles GET /dashboard.
func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	session, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no active session")
	}
	return c.JSON(fiber.Map{
		"data": dto.SessionResponse{Name: session.Name, Email: session.Email, ExpiresAt: session.ExpiresAt},
	})
}
