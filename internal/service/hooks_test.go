package service

import (
	"context"
	"errors"
	"testing"

	"pizzeria/internal/queue"
)

func TestHooksFireInOrderAndSwallowErrors(t *testing.T) {
	var h Hooks
	var calls []string
	h.Register(func(ctx context.Context, ev queue.ActivityEvent) error {
		calls = append(calls, "first:"+ev.Action)
		return errors.New("broker down")
	})
	h.Register(func(ctx context.Context, ev queue.ActivityEvent) error {
		calls = append(calls, "second:"+ev.Action)
		return nil
	})

	// The first hook failing must not stop the second.
	h.Fire(context.Background(), queue.ActivityEvent{UserID: 1, Action: "pizza.updated"})

	if len(calls) != 2 || calls[0] != "first:pizza.updated" || calls[1] != "second:pizza.updated" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestZeroHooksIsUsable(t *testing.T) {
	var h Hooks
	h.Fire(context.Background(), queue.ActivityEvent{}) // must not panic
}
