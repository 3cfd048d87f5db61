package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Bappoz/auth-system/internal/api/metrics"
	"github.com/Bappoz/auth-system/internal/core/token"
)

// CtxUserID is the echo context key under which Auth stores the verified
// token subject. Handlers read it through this constant rather than a
// repeated literal.
const CtxUserID = "user_id"

// Auth validates the bearer token and injects its subject into the request
// context under CtxUserID. Missing header, malformed scheme, and invalid or
// expired tokens all reject with 401; the response never says which.
func Auth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set(CtxUserID, subject)

			return next(c)
		}
	}
}
