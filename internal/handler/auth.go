package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/config"
	"pizzeria/internal/queue"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
	"pizzeria/internal/validate"
)

// AuthHandler bundles dependencies for account and token
// endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Signer   *auth.Signer
	Users    *repository.UserRepo
	Plans    *repository.PlanRepo
	Tokens   *repository.TokenRepo
	Sessions *repository.SessionRepo
	Keys     *repository.APIKeyRepo
	Activity *repository.ActivityRepo
	Hooks    *service.Hooks
}

func NewAuthHandler(cfg config.Config, signer *auth.Signer, u *repository.UserRepo, p *repository.PlanRepo,
	t *repository.TokenRepo, s *repository.SessionRepo, k *repository.APIKeyRepo,
	a *repository.ActivityRepo, hooks *service.Hooks) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Signer: signer, Users: u, Plans: p, Tokens: t, Sessions: s, Keys: k, Activity: a, Hooks: hooks}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Tier     string `json:"tier"`
	IsActive bool   `json:"is_active"`
}

type tokenPairResp struct {
	User           userPart  `json:"user"`
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	AccessExpires  time.Time `json:"access_expires"`
	RefreshExpires time.Time `json:"refresh_expires"`
}

// Register: validate the payload, create the user on the default
// plan, and return the created user. Validation runs before any
// persistence write; a failed payload leaves no row behind.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if errs := validate.Registration(req.Username, req.Password); len(errs) > 0 {
		return detail(c, http.StatusBadRequest, errs.Detail())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	plan, err := h.Plans.GetByName(ctx, h.Cfg.DefaultPlan)
	if err != nil {
		return fail(c, err)
	}
	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, plan, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return detail(c, http.StatusConflict, "username already exists")
		}
		return fail(c, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "user.registered", Detail: "account created", Notify: true})

	return c.JSON(http.StatusCreated, userPart{
		ID: u.ID, Username: u.Username, Email: u.Email, Tier: u.Tier, IsActive: u.IsActive,
	})
}

// Login: verify credentials and return a fresh token pair. A
// refresh row and a session row are persisted; the access token is
// stateless.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return detail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, err)
	}
	if !u.IsActive || !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return detail(c, http.StatusUnauthorized, "invalid credentials")
	}

	pair, err := h.issuePair(ctx, u.ID)
	if err != nil {
		return fail(c, err)
	}
	if _, err := h.Sessions.Create(ctx, u.ID, uuid.NewString(), pair.RefreshExpires); err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: u.ID, Action: "user.login", Detail: "logged in"})

	pair.User = userPart{ID: u.ID, Username: u.Username, Email: u.Email, Tier: u.Tier, IsActive: u.IsActive}
	return c.JSON(http.StatusOK, pair)
}

// Refresh: verify the presented refresh token, then rotate it. The
// signature/expiry check and the stored-row owner check are
// independent conditions; both must pass. Rotation revokes the old
// row and inserts exactly one successor atomically, so replaying a
// consumed token fails with Revoked.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return detail(c, http.StatusBadRequest, "refresh_token required")
	}
	raw := strings.TrimSpace(req.RefreshToken)

	claims, err := h.Signer.Verify(raw, auth.TypeRefresh)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Tokens.FindByHash(ctx, auth.HashToken(raw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, auth.ErrInvalid)
		}
		return fail(c, err)
	}
	if row.Revoked {
		return fail(c, auth.ErrRevoked)
	}
	if row.UserID != claims.UserID {
		// Signed token and stored row disagree on the owner.
		return fail(c, auth.ErrInvalid)
	}

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	if !u.IsActive {
		return fail(c, auth.ErrRevoked)
	}

	newRefresh, err := h.Signer.IssueRefresh(u.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.Rotate(ctx, auth.HashToken(raw), u.ID, auth.HashToken(newRefresh.Value), newRefresh.Exp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent refresh consumed the token first.
			return fail(c, auth.ErrRevoked)
		}
		return fail(c, err)
	}
	access, err := h.Signer.IssueAccess(u.ID)
	if err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: u.ID, Action: "token.refreshed", Detail: "refresh token rotated"})

	return c.JSON(http.StatusOK, tokenPairResp{
		User:           userPart{ID: u.ID, Username: u.Username, Email: u.Email, Tier: u.Tier, IsActive: u.IsActive},
		AccessToken:    access.Value,
		RefreshToken:   newRefresh.Value,
		AccessExpires:  access.Exp,
		RefreshExpires: newRefresh.Exp,
	})
}

// Logout revokes the presented refresh token. Revoking a token
// that is already revoked or was never stored is a no-op so that
// logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return detail(c, http.StatusBadRequest, "refresh_token required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, auth.HashToken(strings.TrimSpace(req.RefreshToken))); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, userPart{
		ID: u.ID, Username: u.Username, Email: u.Email, Tier: u.Tier, IsActive: u.IsActive,
	})
}

// Deactivate archives the authenticated account and revokes all of
// its refresh tokens. The user row is kept with is_active cleared;
// the archived_users snapshot is write-once.
func (h *AuthHandler) Deactivate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Archive(ctx, uid); err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return fail(c, err)
	}

	h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "user.deactivated", Detail: "account archived"})

	return c.NoContent(http.StatusNoContent)
}

// issuePair signs and persists a fresh access/refresh pair.
func (h *AuthHandler) issuePair(ctx context.Context, userID uint64) (tokenPairResp, error) {
	access, err := h.Signer.IssueAccess(userID)
	if err != nil {
		return tokenPairResp{}, err
	}
	refresh, err := h.Signer.IssueRefresh(userID)
	if err != nil {
		return tokenPairResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, auth.HashToken(refresh.Value), refresh.Exp); err != nil {
		return tokenPairResp{}, err
	}
	return tokenPairResp{
		AccessToken:    access.Value,
		RefreshToken:   refresh.Value,
		AccessExpires:  access.Exp,
		RefreshExpires: refresh.Exp,
	}, nil
}
