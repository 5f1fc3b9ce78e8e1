package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/friendconnect/auth-service/internal/api/middleware"
	"github.com/friendconnect/auth-service/internal/core/domain"
)

// currentUser extracts the identity resolved by the session guard. An absent
// identity on a guarded route means the middleware chain is miswired, so the
// request is rejected rather than served with a null identity.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return user, nil
}
