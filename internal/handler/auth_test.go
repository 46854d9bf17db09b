package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/config"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{DefaultPlan: "free", BcryptCost: 4}
	signer := auth.NewSigner("test-secret", 15, 7)
	h := NewAuthHandler(cfg, signer,
		repository.NewUserRepo(db), repository.NewPlanRepo(db), repository.NewTokenRepo(db),
		repository.NewSessionRepo(db), repository.NewAPIKeyRepo(db), repository.NewActivityRepo(db),
		&service.Hooks{})
	return h, mock
}

func postJSON(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterShortUsernameTouchesNothing(t *testing.T) {
	h, mock := newAuthHandler(t)

	c, rec := postJSON("/v1/auth/register", `{"username":"abc","email":"a@b.c","password":"Str0ng_pass"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "detail") || !strings.Contains(rec.Body.String(), "username") {
		t.Fatalf("body = %s, want username validation detail", rec.Body.String())
	}
	// No expectations were registered: any query would have failed,
	// so a clean mock proves validation ran before persistence.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	c, rec := postJSON("/v1/auth/register", `{"username":"valid_user1","email":"a@b.c","password":"short"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func userRow(t *testing.T, id uint64, username, password string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "is_active", "tier", "service_plan_id",
		"usage_quota", "request_count", "last_request_at", "api_key", "created_at", "updated_at",
	}).AddRow(id, username, username+"@example.com", hash, active, "free", 1, 1000, 0, nil, "uuid-1", now, now)
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password_hash, is_active, tier, service_plan_id, usage_quota, request_count, last_request_at, api_key, created_at, updated_at FROM users WHERE username=? LIMIT 1")).
		WithArgs("mario_rossi").
		WillReturnRows(userRow(t, 7, "mario_rossi", "Corr3ct_pass", true))

	c, rec := postJSON("/v1/auth/login", `{"username":"mario_rossi","password":"Wr0ng_pass!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username=").
		WithArgs("mario_rossi").
		WillReturnRows(userRow(t, 7, "mario_rossi", "Corr3ct_pass", false))

	c, rec := postJSON("/v1/auth/login", `{"username":"mario_rossi","password":"Corr3ct_pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshRevokedTokenRejected(t *testing.T) {
	h, mock := newAuthHandler(t)

	tok, err := h.Signer.IssueRefresh(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token_hash, revoked, created_at, expires_at FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs(auth.HashToken(tok.Value)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "revoked", "created_at", "expires_at"}).
			AddRow(1, 7, auth.HashToken(tok.Value), true, now, tok.Exp))

	c, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+tok.Value+`"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "revoked") {
		t.Fatalf("body = %s, want revoked detail", rec.Body.String())
	}
	// Rotation must not have been attempted for a revoked token.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRefreshAccessTokenRejected(t *testing.T) {
	h, mock := newAuthHandler(t)

	// An access token carries typ=access; presenting it for refresh
	// must fail on the type check alone, before any lookup.
	tok, err := h.Signer.IssueAccess(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+tok.Value+`"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	h, mock := newAuthHandler(t)

	// Second revocation of the same hash updates zero rows and the
	// handler still answers 204.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := postJSON("/v1/auth/logout", `{"refresh_token":"whatever"}`)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
