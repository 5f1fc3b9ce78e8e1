package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/friendconnect/auth-service/internal/api/metrics"
	"github.com/friendconnect/auth-service/internal/core/domain"
	"github.com/friendconnect/auth-service/internal/core/ports"
)

// CookieConfig captures the session cookie settings. Secure and SameSite stay
// off unless opted in, matching the observed reference behaviour; this is a
// documented hardening gap.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler exposes the login, logout and registration endpoints.
type AuthHandler struct {
	auth   ports.AuthService
	tokens ports.TokenService
	cookie CookieConfig
}

func NewAuthHandler(auth ports.AuthService, tokens ports.TokenService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, cookie: cookie}
}

// LoginForm describes the login form.
//
// @Summary      Describe the login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  formDescriptor
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, formDescriptor{
		Title:  "FriendConnect - Login",
		Action: "/login",
		Fields: []string{"username", "password"},
	})
}

// Login authenticates a user and starts a cookie session.
//
// @Summary      Login with form credentials
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		// A missing field reads the same as a failed login: no enumeration.
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.ErrInvalidCredentials
	}

	token, _, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.sessionCookie(token))
	return c.Redirect(http.StatusFound, "/")
}

// Logout ends the cookie session. Always succeeds, even without a session.
// The token itself is not revoked; it stays valid until its natural expiry.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	// Best-effort subject resolution for the audit trail; an absent or
	// invalid cookie changes nothing about the outcome.
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if subject, err := h.tokens.Validate(cookie.Value); err == nil {
			h.auth.Logout(c.Request().Context(), subject)
		}
	}

	c.SetCookie(h.expiredCookie())
	return c.Redirect(http.StatusFound, "/")
}

// Register creates a new account and sends the user to the login page.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true   "Username"
// @Param        password  formData  string  true   "Password"
// @Param        name      formData  string  false  "Display name"
// @Param        age       formData  string  false  "Age"
// @Param        address   formData  string  false  "Address"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	timer := prometheus.NewTimer(metrics.PasswordHashDuration)
	_, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Profile:  req.profile(),
	})
	timer.ObserveDuration()

	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	}
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	}
}
