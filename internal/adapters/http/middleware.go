package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
)

// claimsContextKey is where the auth middleware stashes validated claims.
const claimsContextKey = "claims"

// AuthMiddleware validates the Bearer token and stores the claims for
// handlers. It establishes identity only; authorization decisions live in
// the services.
func AuthMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Bearer token required")
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}
