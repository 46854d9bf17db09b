package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/repository"
)

func runMW(mw echo.MiddlewareFunc, req *http.Request) (echo.Context, *httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var reached echo.Context
	err := mw(func(c echo.Context) error {
		reached = c
		return c.NoContent(http.StatusOK)
	})(c)
	return reached, rec, err
}

func TestJWTAuthMissingHeader(t *testing.T) {
	signer := auth.NewSigner("secret", 15, 7)
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)

	reached, rec, err := runMW(JWTAuth(signer), req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if reached != nil {
		t.Fatal("handler ran without credentials")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	signer := auth.NewSigner("secret", 15, 7)
	tok, err := signer.IssueRefresh(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)

	reached, rec, err := runMW(JWTAuth(signer), req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if reached != nil {
		t.Fatal("refresh token passed the access gate")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthSetsUserID(t *testing.T) {
	signer := auth.NewSigner("secret", 15, 7)
	tok, err := signer.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)

	reached, rec, err := runMW(JWTAuth(signer), req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uid, _ := reached.Get("user_id").(uint64); uid != 42 {
		t.Fatalf("user_id = %v, want 42", reached.Get("user_id"))
	}
}

func TestAPIKeyAuthNoHeaderFallsThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	req := httptest.NewRequest(http.MethodGet, "/v1/pizzas", nil)
	reached, _, err := runMW(APIKeyAuth(repository.NewAPIKeyRepo(db)), req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if reached == nil {
		t.Fatal("request without X-API-Key should fall through")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestAPIKeyAuthResolvesOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, api_key, is_active, created_at, expires_at FROM api_keys WHERE api_key=? AND is_active=1 AND (expires_at IS NULL OR expires_at > NOW()) LIMIT 1")).
		WithArgs("key-123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "api_key", "is_active", "created_at", "expires_at"}).
			AddRow(1, 42, "key-123", true, time.Now(), nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/pizzas", nil)
	req.Header.Set(HeaderAPIKey, "key-123")

	reached, _, err := runMW(APIKeyAuth(repository.NewAPIKeyRepo(db)), req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if reached == nil {
		t.Fatal("valid key should reach the handler")
	}
	if uid, _ := reached.Get("user_id").(uint64); uid != 42 {
		t.Fatalf("user_id = %v, want 42", reached.Get("user_id"))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
