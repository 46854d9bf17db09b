package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sessionResp struct {
	ID             uint64    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ListSessions returns the user's sessions that have not expired.
func (h *AuthHandler) ListSessions(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListActive(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResp{
			ID: s.ID, CreatedAt: s.CreatedAt, LastActivityAt: s.LastActivityAt, ExpiresAt: s.ExpiresAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// RevokeSession forces a session to expire now. The row is kept
// for auditing; only its expiry moves.
func (h *AuthHandler) RevokeSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Revoke(ctx, id, uid); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
