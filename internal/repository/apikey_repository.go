package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"pizzeria/internal/model"
)

// APIKeyRepo manages the api_keys table. Keys are deactivated,
// never deleted, and the number of active keys per user is bounded
// by the user's service plan.
type APIKeyRepo struct{ db *sql.DB }

func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo { return &APIKeyRepo{db: db} }

var ErrAPIKeyNotFound = errors.New("api key not found")

// CreateWithLimit inserts a new UUID key for the user, but only if
// the user's active-key count is below maxKeys. Count and insert
// happen inside one transaction so concurrent requests cannot
// both pass the check and exceed the limit. Returns ErrForbidden
// when the limit is reached.
func (r *APIKeyRepo) CreateWithLimit(ctx context.Context, userID uint64, maxKeys int, expiresAt *time.Time) (k model.APIKey, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.APIKey{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// FOR UPDATE serializes concurrent creations for the same user.
	var active int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM api_keys WHERE user_id=? AND is_active=1 FOR UPDATE",
		userID).Scan(&active)
	if err != nil {
		return model.APIKey{}, err
	}
	if active >= maxKeys {
		err = ErrForbidden
		return model.APIKey{}, err
	}

	k = model.APIKey{
		UserID:    userID,
		Key:       uuid.NewString(),
		IsActive:  true,
		ExpiresAt: expiresAt,
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO api_keys (user_id, api_key, is_active, expires_at) VALUES (?,?,1,?)",
		k.UserID, k.Key, k.ExpiresAt)
	if err != nil {
		return model.APIKey{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.APIKey{}, err
	}
	k.ID = uint64(id)
	k.CreatedAt = time.Now().UTC()
	return k, nil
}

// FindActive resolves a presented key to its row. Inactive or
// expired keys report ErrAPIKeyNotFound just like unknown ones.
func (r *APIKeyRepo) FindActive(ctx context.Context, key string) (model.APIKey, error) {
	var k model.APIKey
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, api_key, is_active, created_at, expires_at FROM api_keys WHERE api_key=? AND is_active=1 AND (expires_at IS NULL OR expires_at > NOW()) LIMIT 1",
		key).Scan(&k.ID, &k.UserID, &k.Key, &k.IsActive, &k.CreatedAt, &k.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.APIKey{}, ErrAPIKeyNotFound
	}
	return k, err
}

// ListByUser returns all keys for a user, active first.
func (r *APIKeyRepo) ListByUser(ctx context.Context, userID uint64) ([]model.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, api_key, is_active, created_at, expires_at FROM api_keys WHERE user_id=? ORDER BY is_active DESC, id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.APIKey{}
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Key, &k.IsActive, &k.CreatedAt, &k.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Deactivate clears is_active on a key owned by userID. The
// ownership filter keeps one user from revoking another's key;
// a missing or already-inactive key reports ErrAPIKeyNotFound.
func (r *APIKeyRepo) Deactivate(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE api_keys SET is_active=0 WHERE id=? AND user_id=? AND is_active=1",
		id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}
