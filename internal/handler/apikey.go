package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/queue"
)

type apiKeyResp struct {
	ID        uint64     `json:"id"`
	Key       string     `json:"api_key"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateAPIKey mints a new UUID key for the authenticated user.
// The plan's max_api_keys limit is enforced inside the repository
// transaction; hitting it returns 403.
func (h *AuthHandler) CreateAPIKey(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		TTLDays int `json:"ttl_days"` // 0 means no expiry
	}
	if err := c.Bind(&body); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	var expiresAt *time.Time
	if body.TTLDays > 0 {
		t := time.Now().UTC().Add(time.Duration(body.TTLDays) * 24 * time.Hour)
		expiresAt = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	plan, err := h.Plans.GetByID(ctx, u.ServicePlanID)
	if err != nil {
		return fail(c, err)
	}
	k, err := h.Keys.CreateWithLimit(ctx, uid, plan.MaxAPIKeys, expiresAt)
	if err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "apikey.created", Detail: "api key issued"})

	return c.JSON(http.StatusCreated, apiKeyResp{
		ID: k.ID, Key: k.Key, IsActive: k.IsActive, CreatedAt: k.CreatedAt, ExpiresAt: k.ExpiresAt,
	})
}

// ListAPIKeys returns all of the user's keys, active first.
func (h *AuthHandler) ListAPIKeys(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	keys, err := h.Keys.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	out := make([]apiKeyResp, 0, len(keys))
	for _, k := range keys {
		out = append(out, apiKeyResp{
			ID: k.ID, Key: k.Key, IsActive: k.IsActive, CreatedAt: k.CreatedAt, ExpiresAt: k.ExpiresAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// RevokeAPIKey deactivates one of the user's keys. The row stays
// in place with is_active cleared.
func (h *AuthHandler) RevokeAPIKey(c echo.Context) error {
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

	if err := h.Keys.Deactivate(ctx, id, uid); err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "apikey.revoked", Detail: "api key revoked"})

	return c.NoContent(http.StatusNoContent)
}
