package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	s := NewSigner("test-secret", 15, 7)
	tok, err := s.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if tok.Value == "" {
		t.Fatal("empty token value")
	}
	claims, err := s.Verify(tok.Value, TypeAccess)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("got user id %d, want 42", claims.UserID)
	}
	if claims.Type != TypeAccess {
		t.Fatalf("got type %q, want access", claims.Type)
	}
}

func TestVerifyRejectsWrongType(t *testing.T) {
	s := NewSigner("test-secret", 15, 7)
	refresh, err := s.IssueRefresh(7)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	// A refresh token must not pass where an access token is expected.
	if _, err := s.Verify(refresh.Value, TypeAccess); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := &Signer{Secret: []byte("test-secret"), AccessTTL: -time.Minute, RefreshTTL: time.Hour}
	tok, err := s.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Verify(tok.Value, TypeAccess); !errors.Is(err, ErrExpired) {
		t.Fatalf("got %v, want ErrExpired", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	s := NewSigner("test-secret", 15, 7)
	tok, err := s.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewSigner("different-secret", 15, 7)
	if _, err := other.Verify(tok.Value, TypeAccess); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	// Flipping payload bytes must also fail against the issuing signer.
	parts := strings.Split(tok.Value, ".")
	parts[1] = "x" + parts[1][1:]
	if _, err := s.Verify(strings.Join(parts, "."), TypeAccess); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestHashTokenStable(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	if a != b {
		t.Fatal("hash not deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("got hash length %d, want 64 hex chars", len(a))
	}
	if a == HashToken("abd") {
		t.Fatal("distinct inputs collided")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "Sup3r$ecret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
