package model

import "time"

// UserActivityLog is an append-only audit row in the
// `user_activity_log` table. Rows are written by the queue
// consumer from published activity events and are never updated
// or pruned by this system.
type UserActivityLog struct {
	ID        uint64    // user_activity_log.id
	UserID    uint64    // user_activity_log.user_id
	Action    string    // user_activity_log.action
	Detail    string    // user_activity_log.detail
	CreatedAt time.Time // user_activity_log.created_at
}

// UserNotification is a row in the `user_notifications` table.
type UserNotification struct {
	ID        uint64    // user_notifications.id
	UserID    uint64    // user_notifications.user_id
	Message   string    // user_notifications.message
	IsRead    bool      // user_notifications.is_read
	CreatedAt time.Time // user_notifications.created_at
}
