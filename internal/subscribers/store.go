// Package subscribers tracks which chats receive cinema program
// notifications. The set is the source of truth for subscription state;
// every implementation enforces uniqueness and idempotent mutations.
package subscribers

import (
	"context"
	"errors"
)

// ErrPersist marks a mutation that succeeded in memory but could not be
// written to durable storage. The membership change stands; callers decide
// whether to treat it as committed.
var ErrPersist = errors.New("subscribers: persist failed")

// Store is the durable set of subscribed chat IDs.
//
// Add and Remove report whether membership changed: repeated calls with the
// same id never error, only the first one returns true. All returns a
// snapshot the caller may modify freely.
type Store interface {
	Add(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Contains(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	All(ctx context.Context) ([]int64, error)
}
