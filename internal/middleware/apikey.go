package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/repository"
)

// HeaderAPIKey carries the key on machine-to-machine requests.
const HeaderAPIKey = "X-API-Key"

// APIKeyAuth authenticates a request by its X-API-Key header as an
// alternative to a Bearer token. The key must be active and not
// expired; its owner goes into the context under "user_id", same as
// JWTAuth, so downstream middleware cannot tell the two apart.
// Requests without the header fall through to the next middleware
// untouched, which lets the two schemes chain.
func APIKeyAuth(keys *repository.APIKeyRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderAPIKey))
			if raw == "" {
				return next(c)
			}

			k, err := keys.FindActive(c.Request().Context(), raw)
			if err != nil {
				if err == repository.ErrAPIKeyNotFound {
					return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid api key"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
			}

			c.Set("user_id", k.UserID)
			c.Set("auth_scheme", "api_key")
			return next(c)
		}
	}
}
