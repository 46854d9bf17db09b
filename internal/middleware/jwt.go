package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
)

// JWTAuth validates a Bearer access token and stores the subject
// under "user_id" in the request context. Refresh tokens are
// rejected here even though they carry a valid signature; only
// typ=access passes.
func JWTAuth(signer *auth.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Already authenticated by APIKeyAuth earlier in the chain.
			if uid, ok := c.Get("user_id").(uint64); ok && uid > 0 {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := signer.Verify(raw, auth.TypeAccess)
			if err != nil {
				var ae *auth.Error
				if errors.As(err, &ae) && ae.Reason == auth.ReasonExpired {
					return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid token"})
			}

			c.Set("user_id", claims.UserID)
			return next(c)
		}
	}
}
