package middleware

// identity.go runs after one of the authentication middlewares and
// turns the bare user id into an account check: deactivated
// accounts are locked out immediately even while their access
// tokens are still signature-valid, and every authenticated request
// bumps the user's usage counters.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/repository"
)

// Identity verifies that the authenticated account is still active
// and records the request against its quota counters and session
// activity. Those updates are best effort; a failed bump never
// fails the request.
func Identity(users *repository.UserRepo, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("user_id").(uint64)
			if !ok || uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
			}
			ctx := c.Request().Context()

			u, err := users.GetByID(ctx, uid)
			if err != nil {
				if err == repository.ErrUserNotFound {
					return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"detail": "account deactivated"})
			}

			_ = users.TouchRequest(ctx, uid)
			_ = sessions.Touch(ctx, uid)
			return next(c)
		}
	}
}
