package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type notificationResp struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotifications returns the user's notifications, newest first.
func (h *AuthHandler) ListNotifications(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Activity.ListNotifications(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	out := make([]notificationResp, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResp{ID: n.ID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// MarkNotificationRead flags one notification as read.
func (h *AuthHandler) MarkNotificationRead(c echo.Context) error {
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

	if err := h.Activity.MarkRead(ctx, id, uid); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
