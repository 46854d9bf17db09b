package repository

import (
	"context"
	"database/sql"
	"time"

	"pizzeria/internal/model"
)

// TokenRepo persists refresh tokens (single 'token_hash' column,
// 'revoked' boolean flag). Expiry is carried inside the signed
// token itself; the stored expires_at is bookkeeping only.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row with revoked=false.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, revoked, expires_at) VALUES (?,?,0,?)",
		userID, tokenHash, exp)
	return err
}

// FindByHash returns the stored row for a token hash, including
// revoked rows; callers decide how a revoked row is reported.
// Returns sql.ErrNoRows when no row matches.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, revoked, created_at, expires_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Revoked, &t.CreatedAt, &t.ExpiresAt)
	return t, err
}

// Rotate atomically consumes the presented token and inserts
// exactly one successor. The update is conditional on the row
// still being active and owned by userID, so a concurrent refresh
// of the same token leaves only one winner; the loser sees
// sql.ErrNoRows. A failure partway rolls the whole operation back
// so there is never a revoked token without a successor.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash string, userID uint64, newHash string, newExp time.Time) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND user_id=? AND revoked=0",
		oldHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, revoked, expires_at) VALUES (?,?,0,?)",
		userID, newHash, newExp)
	return err
}

// Revoke marks a token as revoked. Revoking a token that is
// already revoked or absent is a no-op, not an error, so logout
// is idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE user_id=? AND revoked=0",
		userID)
	return err
}
