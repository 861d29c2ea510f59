// Package sync pushes locally mutated records to the remote pharmacy
// system. The push itself is simulated; the bookkeeping around it (status
// flips, retry gating, reporting) is real.
package sync

import "context"

// Item identifies one record awaiting a push.
type Item struct {
	ID       int64
	Attempts int
}

// Queue exposes one syncable collection. The domain services satisfy it
// through small adapters.
type Queue interface {
	// Resource names the collection ("patients", "orders").
	Resource() string
	// Pending lists records whose local changes have not been pushed.
	Pending(ctx context.Context) ([]Item, error)
	// Failed lists records whose last push attempt failed.
	Failed(ctx context.Context) ([]Item, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkError(ctx context.Context, id int64) error
}
