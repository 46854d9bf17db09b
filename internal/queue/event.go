// Package queue defines message payloads exchanged over the
// message broker and the background consumer that turns them into
// audit rows.
package queue

// ActivityQueueName is the durable queue carrying activity events.
const ActivityQueueName = "user.activity"

// ActivityEvent is published whenever a domain operation worth
// auditing completes (login, token refresh, catalog mutation). It
// carries enough information for downstream consumers to write the
// audit log and notify the user without querying request state.
type ActivityEvent struct {
	UserID     uint64 `json:"user_id"`
	Action     string `json:"action"`
	Detail     string `json:"detail"`
	Notify     bool   `json:"notify"`
	OccurredAt string `json:"occurred_at"`
}
