package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type activityResp struct {
	ID        uint64    `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// MyActivity returns the user's audit trail, newest first. The
// optional limit query parameter caps the page; the repository
// applies its own default when it is absent.
func (h *AuthHandler) MyActivity(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Activity.ListActivity(ctx, uid, limit)
	if err != nil {
		return fail(c, err)
	}
	out := make([]activityResp, 0, len(items))
	for _, a := range items {
		out = append(out, activityResp{ID: a.ID, Action: a.Action, Detail: a.Detail, CreatedAt: a.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
