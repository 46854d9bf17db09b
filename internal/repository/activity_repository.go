package repository

import (
	"context"
	"database/sql"
	"errors"

	"pizzeria/internal/model"
)

// ActivityRepo writes the append-only user_activity_log table and
// manages user_notifications. Activity rows come from the queue
// consumer, not directly from request handlers.
type ActivityRepo struct{ db *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

var ErrNotificationNotFound = errors.New("notification not found")

// InsertActivity appends one audit row.
func (r *ActivityRepo) InsertActivity(ctx context.Context, userID uint64, action, detail string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_activity_log (user_id, action, detail, created_at) VALUES (?,?,?,NOW())",
		userID, action, detail)
	return err
}

// InsertNotification creates an unread notification for a user.
func (r *ActivityRepo) InsertNotification(ctx context.Context, userID uint64, message string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_notifications (user_id, message, is_read, created_at) VALUES (?,?,0,NOW())",
		userID, message)
	return err
}

// ListNotifications returns a user's notifications, newest first.
func (r *ActivityRepo) ListNotifications(ctx context.Context, userID uint64) ([]model.UserNotification, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, message, is_read, created_at FROM user_notifications WHERE user_id=? ORDER BY id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserNotification{}
	for rows.Next() {
		var n model.UserNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one of the user's notifications as read.
func (r *ActivityRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE user_notifications SET is_read=1 WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ListActivity returns the audit trail for a user, newest first.
func (r *ActivityRepo) ListActivity(ctx context.Context, userID uint64, limit int) ([]model.UserActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, action, detail, created_at FROM user_activity_log WHERE user_id=? ORDER BY id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserActivityLog{}
	for rows.Next() {
		var a model.UserActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
