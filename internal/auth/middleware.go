package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/invoice-service/internal/domain"
)

const (
	identityKey = "auth_identity"

	// SessionCookie carries the session token.
	SessionCookie = "session_token"
	// LoginPath is the sign-in entry point.
	LoginPath = "/login"
	// DashboardPath is the root of the protected area.
	DashboardPath = "/dashboard"
	// CallbackParam names the query parameter holding the post-login destination.
	CallbackParam = "callbackUrl"
)

// SessionResolver turns a token into a session or ErrNoSession.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// Guard admits or redirects requests before any handler runs.
type Guard struct {
	sessions SessionResolver
	matcher  Matcher
	logger   *zap.Logger
}

// NewGuard constructs the guard.
func NewGuard(sessions SessionResolver, matcher Matcher, logger *zap.Logger) *Guard {
	return &Guard{sessions: sessions, matcher: matcher, logger: logger}
}

// Handle is the fiber middleware.
func (g *Guard) Handle(c *fiber.Ctx) error {
	path := normalizePath(c.Path())
	if !g.matcher.Matches(path) {
		return c.Next()
	}

	session, err := g.sessions.Resolve(c.UserContext(), c.Cookies(SessionCookie))
	if err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	authenticated := err == nil

	switch {
	case underPath(path, DashboardPath):
		if !authenticated {
			g.logger.Debug("redirecting unauthenticated request", zap.String("path", path))
			return c.Redirect(LoginRedirect(string(c.Request().URI().RequestURI())), http.StatusSeeOther)
		}
		c.Locals(identityKey, session)
	case underPath(path, LoginPath) && authenticated && c.Method() == fiber.MethodGet:
		return c.Redirect(DashboardPath, http.StatusSeeOther)
	case authenticated:
		c.Locals(identityKey, session)
	}
	return c.Next()
}

// LoginRedirect builds the sign-in location preserving the requested path.
func LoginRedirect(requested string) string {
	q := url.Values{}
	q.Set(CallbackParam, requested)
	return LoginPath + "?" + q.Encode()
}

// SafeCallback returns target when it is a same-site path, otherwise the dashboard.
func SafeCallback(target string) string {
	if target == "" || target[0] != '/' || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return DashboardPath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DashboardPath
	}
	return target
}

// IdentityFromContext returns the session admitted by the guard.
func IdentityFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	session, ok := c.Locals(identityKey).(*domain.Session)
	return session, ok && session != nil
}
