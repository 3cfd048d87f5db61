package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bappoz/auth-system/internal/api/middleware"
)

// ctxUserID extracts the token subject injected by the Auth middleware and
// fast-fails before any service call: an empty value means the middleware
// did not run (or the token carried no subject), so the request cannot be
// attributed to an account.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
