package sync

import (
	"context"
	"time"
)

// Remote accepts pushed records.
type Remote interface {
	Push(ctx context.Context, resource string, item Item) error
}

// SimulatedRemote stands in for the real pharmacy backend. Each push waits
// Delay and then succeeds, unless Fail decides otherwise.
type SimulatedRemote struct {
	Delay time.Duration
	// Fail, when set, is consulted per push and its error is returned as
	// the push result. Tests use it to inject failures.
	Fail func(resource string, item Item) error
}

func (r *SimulatedRemote) Push(ctx context.Context, resource string, item Item) error {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.Fail != nil {
		return r.Fail(resource, item)
	}
	return nil
}
