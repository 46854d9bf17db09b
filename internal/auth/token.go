package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type values carried in the "typ" claim so an access token
// can never be presented where a refresh token is expected.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Token is a signed JWT along with its expiry. The Value field
// contains the serialized JWT string. Exp stores the UTC expiration
// time so callers can report it to clients without re-parsing.
type Token struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified claim set extracted from a token.
type Claims struct {
	UserID   uint64    // subject (sub)
	Type     string    // token type (typ)
	IssuedAt time.Time // issued at (iat)
	Expires  time.Time // expiration (exp)
}

// Signer builds and verifies HS256 JWTs. The secret must match
// between issuance and verification; it is deployment
// configuration, injected at startup.
type Signer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewSigner returns a Signer with TTLs expressed the way the
// configuration carries them: minutes for access tokens, days for
// refresh tokens.
func NewSigner(secret string, accessTTLMin, refreshTTLDays int) *Signer {
	return &Signer{
		Secret:     []byte(secret),
		AccessTTL:  time.Duration(accessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// IssueAccess signs a short-lived access token for a user. Access
// tokens are stateless: nothing is persisted, and verification
// relies on signature and expiry alone.
func (s *Signer) IssueAccess(userID uint64) (Token, error) {
	return s.issue(userID, TypeAccess, s.AccessTTL)
}

// IssueRefresh signs a longer-lived refresh token. The caller is
// responsible for persisting its hash in the refresh_tokens table
// so the token can later be revoked or rotated.
func (s *Signer) IssueRefresh(userID uint64) (Token, error) {
	return s.issue(userID, TypeRefresh, s.RefreshTTL)
}

func (s *Signer) issue(userID uint64, typ string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// Verify parses and validates a token string. It returns
// ErrExpired when the exp claim has passed and ErrInvalid for any
// other defect (bad signature, wrong algorithm, malformed claims,
// wrong token type). The two conditions are checked independently
// so an expired-but-tampered token still fails.
func (s *Signer) Verify(raw, wantType string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm family.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return Claims{}, ErrInvalid
	}
	typ, _ := mc["typ"].(string)
	if typ != wantType {
		return Claims{}, ErrInvalid
	}
	var c Claims
	c.UserID = uint64(sub)
	c.Type = typ
	if iat, ok := mc["iat"].(float64); ok {
		c.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := mc["exp"].(float64); ok {
		c.Expires = time.Unix(int64(exp), 0).UTC()
	}
	return c, nil
}

// HashToken returns the SHA-256 hash of a signed token string as a
// hex string. Only the hash is stored in the database so a stolen
// refresh_tokens table cannot be replayed against the API.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
