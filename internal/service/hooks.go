// Package service wires domain operations to their side effects.
// Instead of implicit signal dispatch, handlers call an explicit
// hook registry after a successful mutation; observers are
// registered once at startup. Hook failures are logged and never
// propagate into the request that triggered them.
package service

import (
	"context"
	"log"

	"pizzeria/internal/queue"
)

// ActivityHook observes completed domain operations.
type ActivityHook func(ctx context.Context, ev queue.ActivityEvent) error

// Hooks is an ordered observer list. The zero value is usable and
// dispatches to nothing.
type Hooks struct {
	hooks []ActivityHook
}

// Register appends an observer. Not safe for concurrent use;
// registration happens during startup only.
func (h *Hooks) Register(hook ActivityHook) {
	h.hooks = append(h.hooks, hook)
}

// Fire invokes every registered hook in order. Errors are logged
// and swallowed: side effects are best-effort and must not fail
// the operation that fired them.
func (h *Hooks) Fire(ctx context.Context, ev queue.ActivityEvent) {
	for _, hook := range h.hooks {
		if err := hook(ctx, ev); err != nil {
			log.Printf("hook: %s for user %d failed: %v", ev.Action, ev.UserID, err)
		}
	}
}
