package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/friendconnect/auth-service/internal/api/metrics"
	"github.com/friendconnect/auth-service/internal/core/ports"
)

// Context keys under which the guard stores the resolved identity.
const (
	ContextKeyUsername = "username"
	ContextKeyUser     = "user"
)

// LoginPath is where unauthenticated browser requests are sent.
const LoginPath = "/login"

// Mode selects how an unauthenticated request is answered.
type Mode int

const (
	// RejectMode answers with 401 and a JSON envelope (API routes).
	RejectMode Mode = iota
	// RedirectMode answers with a 302 to the login page (web routes).
	RedirectMode
)

// Session guards protected routes. It reads the session cookie, validates the
// token and re-resolves the subject against the user repository, storing the
// identity in the echo context on success.
//
// Every failure — missing cookie, malformed or expired or forged token, user
// deleted after issuance — produces the exact same response. The guard never
// tells a caller which check failed.
func Session(tokens ports.TokenService, users ports.UserRepository, cookieName string, mode Mode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return reject(c, mode, "absent")
			}

			subject, err := tokens.Validate(cookie.Value)
			if err != nil {
				return reject(c, mode, "invalid_token")
			}

			user, err := users.Find(c.Request().Context(), subject)
			if err != nil {
				// Tokens for deleted users must never resolve.
				return reject(c, mode, "unknown_subject")
			}

			metrics.SessionResolutionsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextKeyUsername, user.Username)
			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

func reject(c echo.Context, mode Mode, reason string) error {
	metrics.SessionResolutionsTotal.WithLabelValues(reason).Inc()
	if mode == RedirectMode {
		return c.Redirect(http.StatusFound, LoginPath)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
}
