package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pizzeria/internal/model"
)

// SessionRepo manages the user_sessions table. Revocation is
// logical: expires_at is forced to the current time and the row
// stays in place.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

var ErrSessionNotFound = errors.New("session not found")

// Create inserts a session row and returns its id.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, token string, exp time.Time) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_sessions (user_id, session_token, last_activity_at, expires_at) VALUES (?,?,NOW(),?)",
		userID, token, exp)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListActive returns the user's sessions whose expiry has not
// passed, newest first.
func (r *SessionRepo) ListActive(ctx context.Context, userID uint64) ([]model.UserSession, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, session_token, created_at, last_activity_at, expires_at FROM user_sessions WHERE user_id=? AND expires_at > NOW() ORDER BY id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserSession{}
	for rows.Next() {
		var s model.UserSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionToken, &s.CreatedAt, &s.LastActivityAt, &s.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Touch updates last_activity_at on the user's live sessions. It
// runs on every authenticated request, so zero matched rows is
// normal for API-key traffic that never logged in.
func (r *SessionRepo) Touch(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE user_sessions SET last_activity_at=NOW() WHERE user_id=? AND expires_at > NOW()", userID)
	return err
}

// Revoke forces a session to expire immediately. The row is kept.
func (r *SessionRepo) Revoke(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user_sessions SET expires_at=NOW() WHERE id=? AND user_id=? AND expires_at > NOW()",
		id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
